package core

import (
	"slices"
	"strings"

	"github.com/samber/lo"
)

const AppName = "BlouConnect"

var Villages = []string{
	"Grootpan", "Sias", "Simson", "Arie", "Alldays", "Amosotho", "Archibalt", "Aurora", "Avon",
	"Bahamanoa", "Bahananoa", "Bayswater", "Bergendal", "Berseba", "Blouberg", "Blouberg Munic NU",
	"Bobirwa", "Bochum", "Bodi", "Borwalathoto", "Boshia", "Botlokwa", "Brodie Hill A", "Brodie Hill B",
	"Buffelshoek", "Bull-Bull", "Burgerrecht", "Callashield", "Danzight", "De Villiersdale", "Ditatsu",
	"Driekopies", "Edwinsdale", "Eldorado", "Essoubinca", "Ga-Dankie", "Ga-Hlako A", "Ga-Hlako B",
	"Ga-Kibi", "Ga-Kobe", "Ga-Mabelebele", "Ga-Mabotha", "Ga-Machaba", "Ga-Madibeng", "Ga-Motlana",
	"Ga-Motshemi", "Ga-Moyaga", "Ga-Rammutla A", "Ga-Rammutla B", "Ga-Rampuru", "Ga-Tshabalala",
	"GaMabeba", "GaMakgwata", "Gamalebogo", "GaMalokela", "GaMamadi", "GaMamokhwibidu", "GaMamoleka",
	"GaMaphoto", "GaMasealele", "GaMasekwa", "GaMmatemana", "GaMoisimane Arie", "GaMojela", "GaMonyebodi",
	"GaMoreise", "GaNgwepe", "GaRakwele", "GaRamaswikana", "GaRamotsho", "GaRamutla", "GaRaweshe",
	"GaRawesi", "GaSebotlane", "GaTefu", "Gideon", "Glenfernes", "Goudmyn", "Indermark", "Inveraan",
	"Kgatu", "Kgokonyane", "Kromhoek", "Lekgokgonoku", "Lekiting", "Letshwatla", "Lovely", "Makgabeng",
	"Makgari", "Mamelodi", "Mashaleng", "Matekereng", "Mmankgodi", "Modimvuhusi", "Mokoena Maswikeng",
	"Mokumuru", "Mophamamona", "Mosehleng", "Motsemoswa", "My Darling", "Nontz", "Papegaai", "Pax Intrantibus",
	"Pickum", "Raditshaba", "Rora", "Seboriane", "Sekhung", "Sekiding", "Sekwati", "Selowe", "Senwabarwana",
	"Sesuane", "Setlaole", "Setloking", "Slaaphoek", "Thabananhlana", "Thebere", "Tiekieline", "Tlhona",
	"Tlhonasedimong", "Tolwe", "Tsolametse", "Tswatsane", "Uitkyk B", "Vienen", "Wegdraai",
}

// DefaultVillage is assigned to throwaway accounts created by a login with an unknown phone.
const DefaultVillage = "Blouberg"

func IsVillage(name string) bool {
	return slices.Contains(Villages, name)
}

// SearchVillages returns the villages whose name contains q, ignoring case.
func SearchVillages(q string) []string {
	q = strings.ToLower(q)
	return lo.Filter(Villages, func(v string, _ int) bool {
		return strings.Contains(strings.ToLower(v), q)
	})
}
