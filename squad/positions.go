// Package squad holds the player-form rules: which positions a discipline
// allows, which laterality a position takes, and how age is derived.
package squad

import "github.com/Dosada05/club-admin/models"

var positionsByDiscipline = map[models.Discipline][]string{
	models.DisciplineFootball11: {"Portero", "Defensa Central", "Lateral", "Centrocampista", "Extremo", "Delantero"},
	models.DisciplineFootball7:  {"Portero", "Defensa", "Centrocampista", "Delantero"},
	models.DisciplineFutsal:     {"Portero", "Cierre", "Ala", "Pívot"},
}

var (
	sideLaterality     = []string{"Izquierdo", "Derecho"}
	midfieldLaterality = []string{"Defensivo", "Ofensivo", "Pivote"}
)

var lateralityByPosition = map[string][]string{
	"Lateral":        sideLaterality,
	"Extremo":        sideLaterality,
	"Centrocampista": midfieldLaterality,
}

// DeriveOptions returns the positions valid for a discipline, or an empty
// list for an unknown one. The result is a copy.
func DeriveOptions(d models.Discipline) []string {
	return clone(positionsByDiscipline[d])
}

// DeriveLaterality returns the laterality choices for a position. Positions
// without laterality yield an empty list.
func DeriveLaterality(position string) []string {
	return clone(lateralityByPosition[position])
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func clone(list []string) []string {
	out := make([]string, len(list))
	copy(out, list)
	return out
}
