package filter

// EnrollmentBand is a named undergraduate-enrollment bucket.
type EnrollmentBand struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Min   int    `json:"min"`
	Max   int    `json:"max"`
}

var enrollmentBands = []EnrollmentBand{
	{Name: "extra-small", Label: "Extra-Small (< 1k)", Min: 0, Max: 999},
	{Name: "small", Label: "Small (1k - 3k)", Min: 1000, Max: 2999},
	{Name: "small-mid", Label: "Small-Mid (3k - 7k)", Min: 3000, Max: 6999},
	{Name: "medium", Label: "Medium (7k - 15k)", Min: 7000, Max: 14999},
	{Name: "mid-large", Label: "Mid-Large (15k - 30k)", Min: 15000, Max: 29999},
	{Name: "extra-large", Label: "Extra Large (30k+)", Min: 30000, Max: 999999},
}

// Bands returns a copy of the enrollment band table.
func Bands() []EnrollmentBand {
	out := make([]EnrollmentBand, len(enrollmentBands))
	copy(out, enrollmentBands)
	return out
}

// selectedBands resolves band names, silently ignoring unknown ones.
func selectedBands(names []string) []EnrollmentBand {
	var out []EnrollmentBand
	for _, name := range names {
		for _, b := range enrollmentBands {
			if b.Name == name {
				out = append(out, b)
				break
			}
		}
	}
	return out
}

func inAnyBand(enrollment int, bands []EnrollmentBand) bool {
	for _, b := range bands {
		if enrollment >= b.Min && enrollment <= b.Max {
			return true
		}
	}
	return false
}
