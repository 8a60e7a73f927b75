package domain

// Seed returns the built-in catalog used when no snapshot exists.
// Two records deliberately share a name; names are descriptive, not keys.
func Seed() []Product {
	seed := []Product{
		{
			Name:        "b0006se5bq",
			Number:      "singing coach unlimited",
			Description: "singing coach unlimited - electronic learning products (win me nt 2000 xp)",
			Images: []Image{
				{URL: "https://picsum.photos/400/300", Name: "singing coach"},
				{URL: "https://broken.link.for.testing.notexistingtopleveldomain/400/300", Name: "front side"},
			},
		},
		{
			Name:        "b00021xhzw",
			Number:      "adobe after effects professional 6.5 upgrade from standard to professional",
			Description: "upgrade only; installation of after effects standard new disk caching tools speed up your interactive work save any combination of animation parameters as presets",
			Images:      []Image{},
		},
		{
			Name:        "b00021xhzw",
			Number:      "domino designer/developer v5.0",
			Description: "reference domino designer/developer r5 doc pack includes the following titles: application development with domino designer (intermediate-advanced) 536 pages",
			Images: []Image{
				{URL: "https://picsum.photos/400/300", Name: "cover"},
			},
		},
	}
	for i := range seed {
		seed[i].ID = NewID()
	}
	return seed
}
