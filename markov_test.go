package main

import (
	"strings"
	"testing"
)

func TestCreateChains(t *testing.T) {
	sentences := [][]string{
		{"the", "cat", "sat", "down"},
		{"the", "cat", "ran"},
	}

	chains := createChains(sentences)

	tests := []struct {
		key       []string
		followers []string
	}{
		{[]string{"the", "cat"}, []string{"sat", "ran"}},
		{[]string{"cat", "sat"}, []string{"down"}},
	}

	for _, test := range tests {
		got := chains[chainKey(test.key)]
		if len(got) != len(test.followers) {
			t.Errorf("chain %v = %v, wanted %v", test.key, got,
				test.followers)
			continue
		}
		for i, follower := range test.followers {
			if got[i] != follower {
				t.Errorf("chain %v = %v, wanted %v", test.key, got,
					test.followers)
				break
			}
		}
	}
}

func TestCreateSentenceSingleChain(t *testing.T) {
	// One sentence means one possible walk, ending exactly on it.
	sentences := [][]string{{"one", "two", "three", "four"}}
	chains := createChains(sentences)
	starts := [][]string{sentences[0][:markovChainLength-1]}
	stops := map[string]bool{
		chainKey(sentences[0][len(sentences[0])-markovChainLength:]): true,
	}

	sentence, ok := createSentence(starts, stops, chains)
	if !ok {
		t.Fatalf("createSentence failed")
	}
	if sentence != "one two three four" {
		t.Errorf("createSentence = %q, wanted %q", sentence,
			"one two three four")
	}
}

func TestCreateSummaryStopsOnDuplicates(t *testing.T) {
	sentences := [][]string{{"a", "b", "c"}}
	chains := createChains(sentences)
	starts := [][]string{sentences[0][:markovChainLength-1]}
	stops := map[string]bool{chainKey(sentences[0]): true}

	// Only one distinct sentence exists, so asking for three yields one.
	cache := createSummary(3, starts, stops, chains)
	if len(cache) != 1 {
		t.Fatalf("createSummary produced %d sentences, wanted 1", len(cache))
	}
	if cache[0] != "a b c" {
		t.Errorf("summary sentence = %q, wanted %q", cache[0], "a b c")
	}
}

func TestMarkVShaneyPrepare(t *testing.T) {
	s := &MarkVShaney{lines: []ChannelLine{
		{Source: "alice", Body: "this is long enough"},
		{Source: "bob", Body: "too short"},
		{Source: "EVENT", Body: "carol is joining."},
	}}

	sentences := s.prepare()
	if len(sentences) != 2 {
		t.Fatalf("prepare kept %d sentences, wanted 2", len(sentences))
	}
	if strings.Join(sentences[0], " ") != "this is long enough" {
		t.Errorf("first sentence = %v", sentences[0])
	}
}
