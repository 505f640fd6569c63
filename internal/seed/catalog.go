package seed

import "strings"

// catalogPharmacy is one pharmacy of the fixed launch catalog, carrying its
// raw stock labels and accepted insurance names.
type catalogPharmacy struct {
	ID          string
	Name        string
	Sector      string
	Address     string
	Phone       string
	Delivery    bool
	Lat         float64
	Lng         float64
	Description string
	Insurance   []string
	Stocks      []string
}

// InsuranceNames is the fixed insurance-partner vocabulary.
var InsuranceNames = []string{
	"Britam",
	"Eden Care Medical",
	"Radiant Insurance",
	"Military Medical Insurance",
	"Old Mutual Insurance Rwanda",
	"Prime Insurance",
	"Sanlam Allianz Life Insurance Plc",
	"SAHAM ASSURANCE RWANDA",
	"Sonarwa",
	"Medical Insurance Scheme Of University Of Rwanda",
	"Zion Insurance Brokers Ltd",
}

// prescriptionIndicators flags common prescription medicines by substring.
var prescriptionIndicators = []string{
	"Ceftriaxone", "Basiliximab", "Tacrolimus", "Ranibizumab",
	"Levonorgestrel", "Tramadol", "Clobetasol", "Azithromycin",
	"Ciprofloxacin", "Ornidazole", "Secnidazole", "Clindamycin",
}

// ParseStockLabel splits a raw catalog label like "Azithromycin (suspension)"
// into the canonical medicine name, the optional strength from the
// parenthetical suffix, and the prescription-required flag.
func ParseStockLabel(label string) (name, strength string, requiresPrescription bool) {
	name = label
	if idx := strings.Index(label, "("); idx >= 0 {
		name = strings.TrimSpace(label[:idx])
		rest := label[idx+1:]
		if end := strings.Index(rest, ")"); end >= 0 {
			rest = rest[:end]
		}
		strength = strings.TrimSpace(rest)
	}
	name = strings.TrimSpace(name)

	lower := strings.ToLower(name)
	for _, indicator := range prescriptionIndicators {
		if strings.Contains(lower, strings.ToLower(indicator)) {
			requiresPrescription = true
			break
		}
	}
	return name, strength, requiresPrescription
}

var commonInsurance = []string{
	"Britam", "Eden Care Medical", "Radiant Insurance",
	"Military Medical Insurance", "Old Mutual Insurance Rwanda", "Prime Insurance",
}

var extendedInsurance = append(append([]string{}, commonInsurance...),
	"Sanlam Allianz Life Insurance Plc", "SAHAM ASSURANCE RWANDA", "Sonarwa",
	"Medical Insurance Scheme Of University Of Rwanda", "Zion Insurance Brokers Ltd",
)

var mutuelleOnlyInsurance = []string{
	"Sanlam Allianz Life Insurance Plc", "SAHAM ASSURANCE RWANDA", "Sonarwa",
	"Medical Insurance Scheme Of University Of Rwanda", "Zion Insurance Brokers Ltd",
}

var commonStocks = []string{
	"Cyclobenzaprine Hydrochloride", "Azithromycin (suspension)", "Secnidazole",
	"Omeprazole", "Levonorgestrel", "Erythromycin", "Paracetamol", "Methyldopa",
	"Ibuprofen", "Linagliptin", "Bisoprolol Fumarate", "Clobetasol Propionate",
	"Tramadol Hydrochloride", "Methocarbamol + Paracetamol", "Deflazacort",
	"Nebivolol Hydrochlorothiazide", "Budesonide",
}

var depotStocks = []string{
	"Hydrochloride", "Rifampin + Isoniazid", "Etoricoxib", "Phloroglucinol + Trimethyl Phloroglucinol",
	"Zinc Sulfate Monohydrate", "Magnesium Pidolate", "Ofloxacin + Ornidazole", "Metronidazole",
	"Artesunate", "Itraconazole", "Febuxostat", "Cyproheptadine Hydrochloride + Lysine Hydrochloride",
	"Artemether + Lumefantrine", "Atorvastatin + Ezetimibe",
}

// Pharmacies is the fixed launch catalog of Kigali pharmacies.
var Pharmacies = []catalogPharmacy{
	{
		ID: "ph-001", Name: "Adrenaline Pharmacy Ltd", Sector: "Remera",
		Address: "Kigali - Remera, Rwanda", Phone: "+250785636683",
		Delivery: true, Lat: -1.9570, Lng: 30.1220,
		Insurance: commonInsurance,
		Stocks: []string{
			"Glucose (5% w/v)", "Ceftriaxone + Sulbactam", "Basiliximab", "Miconazole Nitrate",
			"Prasugrel", "Tacrolimus", "Ranibizumab", "Ferrous Sulphate", "Ornidazole",
			"Magnesium Hydroxide / Aluminium Hydroxide / Simethicone",
			"Sulphamethoxazole & Trimethoprim", "Clindamycin Phosphate + Tretinoin",
			"Azithromycin", "Ciprofloxacin",
		},
	},
	{
		ID: "ph-002", Name: "PHARMACIE PHARMALAB", Sector: "Kacyiru",
		Address: "25W6+RG9, Kacyiru, Kigali, Rwanda", Phone: "+250788477537",
		Delivery: true, Lat: -1.9447, Lng: 30.0614,
		Insurance: commonInsurance, Stocks: commonStocks,
	},
	{
		ID: "ph-003", Name: "Pharmacie Conseil", Sector: "Kinyinya",
		Address: "KN 78 St, Kinyinya, Kigali, Rwanda", Phone: "+250788380066",
		Delivery: true, Lat: -1.9441, Lng: 30.0619,
		Insurance: extendedInsurance, Stocks: commonStocks,
	},
	{
		ID: "ph-004", Name: "AfriChem Rwanda Ltd", Sector: "Gikondo",
		Address: "KN 1 RD 67, Gikondo, Kigali, Rwanda", Phone: "+250788300784",
		Delivery: true, Lat: -1.9570, Lng: 30.1220,
		Description: "Leading supplier of quality chemical products",
		Insurance:   commonInsurance, Stocks: commonStocks,
	},
	{
		ID: "ph-005", Name: "PHARMACIE CONTINENTALE", Sector: "Kimihurura",
		Address: "KG 1 Ave, Kimihurura, Kigali, Rwanda", Phone: "+250788306878",
		Delivery: true, Lat: -1.9480, Lng: 30.0580,
		Description: "Quality pharmaceuticals and healthcare services in Kigali",
		Insurance:   extendedInsurance, Stocks: commonStocks,
	},
	{
		ID: "ph-006", Name: "Kipharma", Sector: "Gisozi",
		Address: "KN 74 Street, Gisozi, Kigali, Rwanda", Phone: "+250252572944",
		Delivery: true, Lat: -1.9440, Lng: 30.0620,
		Insurance: commonInsurance, Stocks: commonStocks,
	},
	{
		ID: "ph-007", Name: "Oasis Pharmacy", Sector: "Masoro",
		Address: "24FM+3P4, Masoro, Kigali, Rwanda", Phone: "+250781958800",
		Delivery: true, Lat: -1.9450, Lng: 30.0600,
		Insurance: commonInsurance, Stocks: commonStocks[:14],
	},
	{
		ID: "ph-008", Name: "Anik Industries", Sector: "Kacyiru",
		Address: "Bp. 211, Kacyiru, Kigali, Rwanda", Phone: "+250252572164",
		Delivery: true, Lat: -1.9460, Lng: 30.0590,
		Description: "Leading provider of quality industrial products",
		Insurance:   commonInsurance, Stocks: commonStocks,
	},
	{
		ID: "ph-009", Name: "DEPOT PHARMACEUTIQUE", Sector: "Kimironko",
		Address: "Kimironko, P.O.Box 2770, Kigali, Rwanda", Phone: "+250252577571",
		Delivery: true, Lat: -1.9440, Lng: 30.0620,
		Description: "Quality pharmaceuticals and healthcare services provider",
		Insurance:   commonInsurance,
		Stocks:      append(append([]string{}, depotStocks...), commonStocks...),
	},
	{
		ID: "ph-010", Name: "BIOPHARMACIA", Sector: "Kacyiru",
		Address: "Kacyiru, P.O.Box 2513, Kigali, Rwanda", Phone: "+250252504086",
		Delivery: true, Lat: -1.9435, Lng: 30.0615,
		Description: "Innovative solutions for healthcare and pharmaceuticals",
		Insurance:   commonInsurance, Stocks: commonStocks,
	},
	{
		ID: "ph-011", Name: "Unipharma Kipharma", Sector: "Remera",
		Address: "KN 74 Street, Remera, Kigali, Rwanda", Phone: "+250252572944",
		Delivery: true, Lat: -1.9440, Lng: 30.0620,
		Insurance: commonInsurance, Stocks: depotStocks,
	},
	{
		ID: "ph-012", Name: "Lifecare", Sector: "Kimironko",
		Address: "Bp. 5000, Kimironko, Kigali, Rwanda", Phone: "+250252501313",
		Delivery: true, Lat: -1.9470, Lng: 30.0580,
		Insurance: mutuelleOnlyInsurance, Stocks: commonStocks,
	},
	{
		ID: "ph-013", Name: "Conseil Pharmacy", Sector: "Remera",
		Address: "Bp. 1072, Remera, Kigali, Rwanda", Phone: "+250252572374",
		Delivery: true, Lat: -1.9455, Lng: 30.0595,
		Insurance: mutuelleOnlyInsurance, Stocks: commonStocks,
	},
	{
		ID: "ph-014", Name: "DEPOT PHARMACEUTIQUE ET MATERIEL MEDICAL KALISIMBI", Sector: "Ndera",
		Address: "Ndera, P.O.Box 4526, Kigali, Rwanda", Phone: "+250252202549",
		Delivery: true, Lat: -1.9430, Lng: 30.0610,
		Description: "Quality pharmaceuticals and medical supplies distributor",
		Insurance:   mutuelleOnlyInsurance, Stocks: commonStocks,
	},
	{
		ID: "ph-015", Name: "Moderne", Sector: "Nyamirambo",
		Address: "Nyamirambo, Kigali, Rwanda", Phone: "+250788000000",
		Delivery: true, Lat: -1.9420, Lng: 30.0600,
		Insurance: commonInsurance, Stocks: commonStocks,
	},
	{
		ID: "ph-016", Name: "Opa Pharmacy", Sector: "Remera",
		Address: "Remera, Kigali, Rwanda", Phone: "+250788000001",
		Delivery: true, Lat: -1.9560, Lng: 30.1210,
		Insurance: commonInsurance, Stocks: commonStocks,
	},
	{
		ID: "ph-017", Name: "Sara's Pharmacy", Sector: "Kimironko",
		Address: "Kimironko, Kigali, Rwanda", Phone: "+250788000002",
		Delivery: true, Lat: -1.9465, Lng: 30.0585,
		Insurance: commonInsurance, Stocks: commonStocks,
	},
}
