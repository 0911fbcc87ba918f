package surface

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/lsmc/candidature/internal/application"
)

// Embed limits enforced by the chat service.
const (
	maxFieldValue  = 1024
	maxDescription = 4096
)

const (
	webhookUsername = "LSMC Recrutement"
	embedTitle      = "Candidature – Los Santos Medical Center"
	embedColor      = 0x00B4D8
	embedAuthor     = "LSMC • Recrutement"
	embedFooter     = "Dossier RH — Ne pas répondre dans ce canal."
	placeholder     = "—"
)

// WebhookMessage is the JSON body accepted by a chat webhook.
type WebhookMessage struct {
	Content         *string          `json:"content"`
	Username        string           `json:"username,omitempty"`
	AllowedMentions *AllowedMentions `json:"allowed_mentions,omitempty"`
	Embeds          []Embed          `json:"embeds,omitempty"`
}

// AllowedMentions restricts which mentions in the message may ping.
type AllowedMentions struct {
	Parse []string `json:"parse"`
}

// Embed is one rich card of a webhook message.
type Embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Color       int          `json:"color"`
	Author      *EmbedAuthor `json:"author,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
	Fields      []EmbedField `json:"fields"`
	Timestamp   string       `json:"timestamp"`
}

type EmbedAuthor struct {
	Name string `json:"name"`
}

type EmbedFooter struct {
	Text string `json:"text"`
}

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// BuildApplicationPayload builds the recruitment embed for a candidature.
func BuildApplicationPayload(app *application.Application, now time.Time) WebhookMessage {
	bullet := func(label, value string) string {
		return fmt.Sprintf("• **%s:** %s", label, value)
	}
	certif := app.Certif
	if certif == "" {
		certif = "non"
	}
	description := strings.Join([]string{
		"Nouvelle candidature LSMC",
		bullet("Poste", "**"+app.Poste+"**"),
		bullet("Disponibilités", orPlaceholder(app.Disp1)),
		bullet("Certification règlement", strings.ToUpper(certif)),
	}, "\n")

	experience := orPlaceholder(app.ExpMed)
	if app.ExpMed == "oui" {
		experience += fmt.Sprintf(" • %s, %s", orDefault(app.ExpPoste, "poste ?"), orDefault(app.ExpDuree, "durée ?"))
	}

	fields := []EmbedField{
		section("— Informations —"),
		inline("Nom RP", app.Nom),
		inline("Âge RP", app.Age),
		inline("Poste", app.Poste),
		inline("Expérience", experience),
		inline("Nuit", app.Nuit),
		inline("Formation", app.Formation),
		section("— Motivation —"),
	}
	fields = append(fields, answers(app, "motivation_1", "motivation_2", "motivation_3", "motivation_4")...)
	fields = append(fields, section("— Connaissances RP —"))
	fields = append(fields, answers(app, "med_1", "med_2", "med_3", "med_4")...)
	fields = append(fields, section("— Règlement & discipline —"))
	fields = append(fields, answers(app, "reg_1", "reg_2", "reg_3")...)

	return WebhookMessage{
		AllowedMentions: &AllowedMentions{Parse: []string{}},
		Username:        webhookUsername,
		Embeds: []Embed{{
			Title:       embedTitle,
			Description: truncate(description, maxDescription),
			Color:       embedColor,
			Author:      &EmbedAuthor{Name: embedAuthor},
			Footer:      &EmbedFooter{Text: embedFooter},
			Fields:      fields,
			Timestamp:   now.UTC().Format(time.RFC3339),
		}},
	}
}

// BuildConfirmationPayload builds the short message posted when the candidate
// asked for a confirmation.
func BuildConfirmationPayload(app *application.Application) WebhookMessage {
	content := fmt.Sprintf("Confirmation: Candidature envoyée pour **%s** – Poste **%s**.", app.Nom, app.Poste)
	return WebhookMessage{
		Content:         &content,
		AllowedMentions: &AllowedMentions{Parse: []string{}},
	}
}

func answers(app *application.Application, ids ...string) []EmbedField {
	values := make(map[string]string)
	for _, p := range app.Pairs() {
		values[p.Key] = p.Value
	}
	out := make([]EmbedField, 0, len(ids))
	for _, id := range ids {
		out = append(out, EmbedField{Name: application.Labels[id], Value: orPlaceholder(values[id])})
	}
	return out
}

func section(name string) EmbedField {
	return EmbedField{Name: name, Value: " "}
}

func inline(name, value string) EmbedField {
	return EmbedField{Name: name, Value: orPlaceholder(value), Inline: true}
}

func orPlaceholder(v string) string {
	return truncate(orDefault(v, placeholder), maxFieldValue)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// truncate cuts s to at most max runes, ending with an ellipsis when shortened.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-1]) + "…"
}
