package utils

import (
	"fmt"

	"github.com/Dosada05/bracket-manager/models"
)

var (
	sampleMaleNames   = []string{"Alan", "Lucas", "Marcelo", "Carlos", "Ricardo", "João", "Pedro", "Miguel", "Gabriel", "Rafael"}
	sampleFemaleNames = []string{"Ana", "Maria", "Joana", "Fernanda", "Paula", "Luisa", "Sofia", "Julia", "Beatriz", "Laura"}
	sampleOrgNames    = []string{
		"Escola Politécnica", "Escola de Engenharia", "Escola de Artes", "Academia Judo", "Centro Esportivo",
		"Clube Atlético", "Instituto Nacional", "Associação Desportiva", "Federação Estadual", "União Esportiva",
	}
	sampleTags = []struct {
		id     string
		values []string
	}{
		{id: "Peso", values: []string{"10kg", "20kg", "30kg", "40kg", "50kg"}},
		{id: "SUB", values: []string{"SUB10", "SUB11", "SUB12", "SUB13", "SUB14", "SUB15", "SUB16"}},
	}
)

// GenerateRandomOrganizations builds a reproducible demo roster.
// Names are suffixed with their index so every contestant id is unique.
func GenerateRandomOrganizations(numOrgs, playersPerOrg int, gen *RandomGen) []models.Organization {
	orgs := make([]models.Organization, 0, numOrgs)
	for i := 0; i < numOrgs; i++ {
		name := fmt.Sprintf("Organização %d", i+1)
		if i < len(sampleOrgNames) {
			name = sampleOrgNames[i]
		}

		players := make([]models.RawPlayer, 0, playersPerOrg)
		for j := 0; j < playersPerOrg; j++ {
			isMale := gen.Float64() > 0.5
			names := sampleFemaleNames
			if isMale {
				names = sampleMaleNames
			}
			p := models.RawPlayer{Name: fmt.Sprintf("%s %d", PickRandom(names, gen), j+1), IsMale: isMale}
			for _, t := range sampleTags {
				p.Category = append(p.Category, models.Tag{ID: t.id, Value: PickRandom(t.values, gen)})
			}
			players = append(players, p)
		}
		orgs = append(orgs, models.Organization{Organization: name, Players: players})
	}
	return orgs
}
