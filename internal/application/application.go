// Package application models the LSMC candidature record submitted by the form.
package application

import (
	"strings"

	"github.com/lsmc/candidature/internal/gate"
)

// Application is one candidature. JSON keys match the form field names.
type Application struct {
	Nom      string `json:"nom"`
	Age      string `json:"age"`
	ExpMed   string `json:"exp_med"` // "oui" or "non"
	ExpPoste string `json:"exp_poste"`
	ExpDuree string `json:"exp_duree"`
	Poste    string `json:"poste"`

	Motivation1 string `json:"motivation_1"`
	Motivation2 string `json:"motivation_2"`
	Motivation3 string `json:"motivation_3"`
	Motivation4 string `json:"motivation_4"`

	Med1 string `json:"med_1"`
	Med2 string `json:"med_2"`
	Med3 string `json:"med_3"`
	Med4 string `json:"med_4"`

	Reg1 string `json:"reg_1"`
	Reg2 string `json:"reg_2"`
	Reg3 string `json:"reg_3"`

	Disp1 string `json:"disp_1"`

	Nuit        string `json:"nuit"`
	Formation   string `json:"formation"`
	Certif      string `json:"certif"`       // "oui" when the rules were accepted
	AutoConfirm string `json:"auto_confirm"` // "oui" to post a confirmation message
}

// Pair is one key/value of the record.
type Pair struct {
	Key   string
	Value string
}

// Pairs returns every field in form order.
func (a *Application) Pairs() []Pair {
	return []Pair{
		{"nom", a.Nom},
		{"age", a.Age},
		{"exp_med", a.ExpMed},
		{"exp_poste", a.ExpPoste},
		{"exp_duree", a.ExpDuree},
		{"poste", a.Poste},
		{"motivation_1", a.Motivation1},
		{"motivation_2", a.Motivation2},
		{"motivation_3", a.Motivation3},
		{"motivation_4", a.Motivation4},
		{"med_1", a.Med1},
		{"med_2", a.Med2},
		{"med_3", a.Med3},
		{"med_4", a.Med4},
		{"reg_1", a.Reg1},
		{"reg_2", a.Reg2},
		{"reg_3", a.Reg3},
		{"disp_1", a.Disp1},
		{"nuit", a.Nuit},
		{"formation", a.Formation},
		{"certif", a.Certif},
		{"auto_confirm", a.AutoConfirm},
	}
}

// Labels for the free-text questions, shared by the gate report and the webhook embed.
var Labels = map[string]string{
	"motivation_1": "Pourquoi LSMC ?",
	"motivation_2": "Apports à l’équipe",
	"motivation_3": "Patient agressif",
	"motivation_4": "Ordre du supérieur",
	"med_1":        "Arrêt cardiaque vs coma RP",
	"med_2":        "Étapes intervention RP",
	"med_3":        "Multiples blessés dont un critique",
	"med_4":        "Communication radio en urgence",
	"reg_1":        "Règles du LSMC",
	"reg_2":        "Oubli volontaire de facturation",
	"reg_3":        "RP réaliste et immersif",
	"disp_1":       "Disponibilités",
}

var textFieldIDs = []string{
	"motivation_1", "motivation_2", "motivation_3", "motivation_4",
	"med_1", "med_2", "med_3", "med_4",
	"reg_1", "reg_2", "reg_3",
	"disp_1",
}

// TextFields returns the free-text answers screened by the gate, in form order.
func (a *Application) TextFields() []gate.Field {
	values := make(map[string]string, len(textFieldIDs))
	for _, p := range a.Pairs() {
		values[p.Key] = p.Value
	}
	fields := make([]gate.Field, 0, len(textFieldIDs))
	for _, id := range textFieldIDs {
		fields = append(fields, gate.Field{ID: id, Label: Labels[id], Text: values[id]})
	}
	return fields
}

// IsTextField reports whether id names a screened free-text question.
func IsTextField(id string) bool {
	_, ok := Labels[id]
	return ok
}

// Normalize trims every value and lower-cases the yes/no choices.
func (a *Application) Normalize() {
	for _, f := range []*string{
		&a.Nom, &a.Age, &a.ExpPoste, &a.ExpDuree, &a.Poste,
		&a.Motivation1, &a.Motivation2, &a.Motivation3, &a.Motivation4,
		&a.Med1, &a.Med2, &a.Med3, &a.Med4,
		&a.Reg1, &a.Reg2, &a.Reg3, &a.Disp1,
		&a.Nuit, &a.Formation,
	} {
		*f = strings.TrimSpace(*f)
	}
	for _, f := range []*string{&a.ExpMed, &a.Certif, &a.AutoConfirm} {
		*f = strings.ToLower(strings.TrimSpace(*f))
	}
	if a.Certif == "" {
		a.Certif = "non"
	}
	if a.AutoConfirm == "" {
		a.AutoConfirm = "non"
	}
}
