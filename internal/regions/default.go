package regions

// defaultTable is the backend region table: seven regions, chest as the
// fallback for findings that name no location.
//
// A second table with the regions head, hair, stomach, legs, feet and arms
// and a head fallback exists in the avatar frontend. It is deliberately not
// merged here.
var defaultTable = MustNewTable(
	[]Region{Head, Arms, Chest, Back, Stomach, Legs, Feet},
	[]Rule{
		{"brain", Head},
		{"neuro", Head},
		{"head", Head},

		{"heart", Chest},
		{"lungs", Chest},
		{"chest", Chest},

		{"back", Back},
		{"spine", Back},

		{"stomach", Stomach},
		{"abdomen", Stomach},
		{"liver", Stomach},
		{"kidney", Stomach},
		{"kidney_left", Stomach},
		{"kidney_right", Stomach},
		{"pancreas", Stomach},
		{"spleen", Stomach},
		{"intestines", Stomach},
		{"bladder", Stomach},

		{"arms", Arms},
		{"shoulder", Arms},
		{"left_shoulder", Arms},
		{"right_shoulder", Arms},

		{"legs", Legs},
		{"knee", Legs},
		{"left_knee", Legs},
		{"right_knee", Legs},

		{"feet", Feet},
		{"foot", Feet},

		{GeneralKey, Chest},
	},
	Chest,
)

// Default returns the table used by the service.
func Default() *Table {
	return defaultTable
}
