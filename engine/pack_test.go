package engine

import "testing"

// TestValidatePackAccepts verifies well-formed packs.
func TestValidatePackAccepts(t *testing.T) {
	tests := []struct {
		name  string
		hand  []Card
		play  []Card
		table Table
	}{
		{
			"threes on tiles",
			cards("tiles 3", "clovers 3", "pikes 3", "clovers 10"),
			cards("tiles 3", "pikes 3", "clovers 3"),
			plainTable("tiles 8"),
		},
		{
			"four sevens",
			cards("tiles 7", "clovers 7", "pikes 7", "hearts 7"),
			cards("tiles 7", "clovers 7", "pikes 7", "hearts 7"),
			plainTable("tiles 9"),
		},
		{
			"weak kings from two decks",
			cards("tiles K", "tiles K", "clovers K"),
			cards("tiles K", "tiles K", "clovers K"),
			plainTable("tiles 9"),
		},
		{
			"attacking kings from two decks",
			cards("hearts K", "pikes K", "hearts K"),
			cards("hearts K", "pikes K", "hearts K"),
			plainTable("hearts 9"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			legal := LegalPlays(tt.hand, tt.table)
			if !ValidatePack(tt.hand, tt.play, legal) {
				t.Errorf("pack %v rejected, legal %v", tt.play, legal)
			}
		})
	}
}

// TestValidatePackRejects verifies every malformed pack is refused as a whole.
func TestValidatePackRejects(t *testing.T) {
	hand := cards("tiles 5", "clovers 5", "hearts 5", "pikes 8")
	table := plainTable("tiles 8")
	legal := LegalPlays(hand, table)

	tests := []struct {
		name string
		play []Card
	}{
		{"mixed ranks", cards("pikes 8", "clovers 5", "hearts 5")},
		{"duplicate not held", cards("clovers 5", "clovers 5", "hearts 5")},
		{"first card illegal", cards("clovers 5", "tiles 5", "hearts 5")},
		{"too few", cards("tiles 5", "clovers 5")},
		{"card not in hand", cards("tiles 5", "clovers 5", "pikes 5")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if ValidatePack(hand, tt.play, legal) {
				t.Errorf("pack %v accepted", tt.play)
			}
		})
	}
}

// TestValidatePackMultiset verifies a card named twice must be held twice.
func TestValidatePackMultiset(t *testing.T) {
	hand := cards("clovers 7", "tiles 7", "pikes 7")
	legal := LegalPlays(hand, plainTable("tiles 7"))
	if ValidatePack(hand, cards("tiles 7", "tiles 7", "pikes 7"), legal) {
		t.Errorf("duplicate tiles 7 accepted")
	}
	if !ValidatePack(hand, cards("tiles 7", "clovers 7", "pikes 7"), legal) {
		t.Errorf("valid sevens rejected")
	}
}

// TestValidatePackKingPairs verifies Kings may not mix color pairs.
func TestValidatePackKingPairs(t *testing.T) {
	hand := cards("hearts K", "pikes K", "tiles K", "clovers K")
	legal := LegalPlays(hand, plainTable("hearts 9"))
	if ValidatePack(hand, cards("hearts K", "tiles K", "pikes K"), legal) {
		t.Errorf("mixed king pack accepted")
	}
	if ValidatePack(hand, cards("hearts K", "pikes K", "clovers K"), legal) {
		t.Errorf("mixed king pack accepted")
	}
}

// TestPackRanks verifies a pack rank needs three copies and a legal copy.
func TestPackRanks(t *testing.T) {
	hand := cards("tiles 5", "clovers 5", "hearts 5", "pikes 8", "hearts 8", "clovers 8", "tiles 9", "hearts 9")
	legal := LegalPlays(hand, plainTable("tiles 2"))
	ranks := PackRanks(hand, legal)
	if len(ranks) != 1 || ranks[0] != RankFive {
		t.Errorf("want [5], got %v", ranks)
	}
}
