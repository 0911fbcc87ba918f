package application_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/lsmc/candidature/internal/application"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validApplication() *application.Application {
	return &application.Application{
		Nom:         "Ada Moreau",
		Age:         "29",
		ExpMed:      "oui",
		ExpPoste:    "Ambulancière",
		ExpDuree:    "2 ans",
		Poste:       "Interne",
		Motivation1: "Je veux rejoindre une équipe soudée.",
		Motivation2: "Mon calme en intervention.",
		Motivation3: "Je garde mes distances et j'appelle la police.",
		Motivation4: "J'exécute puis je discute en privé.",
		Med1:        "Le coma RP laisse une chance de réanimation.",
		Med2:        "Sécuriser, évaluer, stabiliser, transporter.",
		Med3:        "Je trie et je traite le critique en premier.",
		Med4:        "Messages courts avec code et position.",
		Reg1:        "Respect, ponctualité et tenue.",
		Reg2:        "C'est une faute, je le signale.",
		Reg3:        "Je joue les blessures de façon crédible.",
		Disp1:       "Soirs de semaine",
		Nuit:        "oui",
		Formation:   "oui",
		Certif:      "oui",
		AutoConfirm: "non",
	}
}

func TestNormalize(t *testing.T) {
	app := validApplication()
	app.Nom = "  Ada Moreau \n"
	app.ExpMed = " OUI "
	app.Certif = ""
	app.AutoConfirm = ""

	app.Normalize()

	assert.Equal(t, "Ada Moreau", app.Nom)
	assert.Equal(t, "oui", app.ExpMed)
	assert.Equal(t, "non", app.Certif)
	assert.Equal(t, "non", app.AutoConfirm)
}

func TestTextFields(t *testing.T) {
	app := validApplication()
	fields := app.TextFields()

	require.Len(t, fields, 12)
	assert.Equal(t, "motivation_1", fields[0].ID)
	assert.Equal(t, "Pourquoi LSMC ?", fields[0].Label)
	assert.Equal(t, app.Motivation1, fields[0].Text)
	assert.Equal(t, "disp_1", fields[11].ID)
	assert.Equal(t, "Disponibilités", fields[11].Label)

	assert.True(t, application.IsTextField("reg_2"))
	assert.False(t, application.IsTextField("nom"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(a *application.Application)
		wantFields []string
	}{
		{name: "valid", mutate: func(*application.Application) {}},
		{
			name:   "experience details optional without experience",
			mutate: func(a *application.Application) { a.ExpMed, a.ExpPoste, a.ExpDuree = "non", "", "" },
		},
		{
			name:       "experience details required with experience",
			mutate:     func(a *application.Application) { a.ExpPoste = "" },
			wantFields: []string{"exp_poste"},
		},
		{
			name:       "rules not certified",
			mutate:     func(a *application.Application) { a.Certif = "non" },
			wantFields: []string{"certif"},
		},
		{
			name:       "missing name and answer",
			mutate:     func(a *application.Application) { a.Nom, a.Med3 = "", "" },
			wantFields: []string{"med_3", "nom"},
		},
		{
			name:       "age not numeric",
			mutate:     func(a *application.Application) { a.Age = "vingt" },
			wantFields: []string{"age"},
		},
		{
			name:       "unknown experience answer",
			mutate:     func(a *application.Application) { a.ExpMed = "peut-être" },
			wantFields: []string{"exp_med"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := validApplication()
			tc.mutate(app)

			err := app.Validate()
			if len(tc.wantFields) == 0 {
				require.NoError(t, err)
				return
			}

			var verr *application.ValidationError
			require.True(t, errors.As(err, &verr), "expected *ValidationError, got %v", err)

			var got []string
			for _, p := range verr.Problems {
				if len(got) == 0 || got[len(got)-1] != p.Field {
					got = append(got, p.Field)
				}
			}
			assert.Equal(t, tc.wantFields, got)
			assert.Contains(t, err.Error(), "invalid application")
		})
	}
}

func TestEncodeCSV(t *testing.T) {
	app := validApplication()
	app.Motivation1 = "Ligne un\nligne \"deux\""
	app.Med1 = "a,b"

	var buf bytes.Buffer
	require.NoError(t, app.EncodeCSV(&buf))

	lines := strings.Split(buf.String(), "\n")
	require.Len(t, lines, 3, "header, values, trailing newline")
	assert.Equal(t, "", lines[2])

	assert.True(t, strings.HasPrefix(lines[0], "nom,age,exp_med,exp_poste,exp_duree,poste,motivation_1,"))
	assert.True(t, strings.HasSuffix(lines[0], ",nuit,formation,certif,auto_confirm"))
	assert.Contains(t, lines[1], `"Ligne un ligne ""deux"""`)
	assert.Contains(t, lines[1], `"a,b"`)
	assert.True(t, strings.HasPrefix(lines[1], `"Ada Moreau","29","oui",`))
	assert.Equal(t, buf.Bytes(), app.CSV())
}

func TestEncodeCSVEmptyValuesQuoted(t *testing.T) {
	app := &application.Application{}
	out := string(app.CSV())

	values := strings.Split(strings.TrimSuffix(out, "\n"), "\n")[1]
	assert.Equal(t, strings.TrimSuffix(strings.Repeat(`"",`, 22), ","), values)
}
