package catalog

// Bootstrap returns the sample listings served when no other source is configured.
func Bootstrap() []Item {
	return []Item{
		{
			ID:          "1",
			Name:        "Nintendo NES",
			Category:    "gaming",
			Description: "Original Nintendo Entertainment System from 1985. Good condition with controllers.",
			Price:       "$150",
			Seller:      "RetroGamer",
		},
		{
			ID:          "2",
			Name:        "Yamaha DX7",
			Category:    "synthesizer",
			Description: "Classic FM synthesizer from 1983. The quintessential 80s synth sound.",
			Price:       "$800",
			Seller:      "SynthWave",
		},
		{
			ID:          "3",
			Name:        "Commodore 64",
			Category:    "computers",
			Description: "Best-selling home computer of all time. Includes 1541 disk drive.",
			Price:       "$220",
			Seller:      "BitCollector",
		},
		{
			ID:          "4",
			Name:        "Roland TB-303",
			Category:    "synthesizer",
			Description: "Bass line sequencer from 1981, the sound of acid house. Serviced last year.",
			Price:       "$2500",
			Seller:      "SynthWave",
		},
		{
			ID:          "5",
			Name:        "Sony Walkman TPS-L2",
			Category:    "audio",
			Description: "First portable cassette player, blue and silver edition with headphones.",
			Price:       "$400",
			Seller:      "TapeDeck",
		},
	}
}
