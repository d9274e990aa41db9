package main

import (
	"math/rand"
	"strings"
)

const (
	// markovChainLength is the n-gram size of the chain.
	markovChainLength = 3

	// maxSummaryRetries bounds how often a duplicate or dead-end sentence
	// is retried before the summary is cut short.
	maxSummaryRetries = 5

	// maxSentenceWords stops a walk that never reaches a terminal n-gram.
	maxSentenceWords = 1000
)

// MarkVShaney generates a nonsense summary of a channel buffer with a
// classic Mark V. Shaney word chain. It pops straight back to the channel
// when done.
type MarkVShaney struct {
	client  *Client
	channel *Channel
	lines   []ChannelLine
}

func newMarkVShaney(client *Client, channel *Channel,
	lines []ChannelLine) *MarkVShaney {
	return &MarkVShaney{client: client, channel: channel, lines: lines}
}

func (s *MarkVShaney) Handle() (Handler, error) {
	sentences := s.prepare()
	size := minInt((len(s.lines)+3)/4, len(sentences))

	chains := createChains(sentences)
	starts := make([][]string, 0, len(sentences))
	stops := make(map[string]bool, len(sentences))
	for _, words := range sentences {
		starts = append(starts, words[:markovChainLength-1])
		stops[chainKey(words[len(words)-markovChainLength:])] = true
	}

	return nil, s.printSummary(createSummary(size, starts, stops, chains))
}

// prepare splits the buffer into sentences long enough to chain on.
func (s *MarkVShaney) prepare() [][]string {
	sentences := [][]string{}
	for _, line := range s.lines {
		words := strings.Fields(line.Body)
		if len(words) >= markovChainLength {
			sentences = append(sentences, words)
		}
	}
	return sentences
}

func chainKey(words []string) string {
	return strings.Join(words, "\x00")
}

// createChains maps every (n-1)-gram to the words that can follow it.
func createChains(sentences [][]string) map[string][]string {
	chains := make(map[string][]string)
	for _, sentence := range sentences {
		for index := 0; index+markovChainLength <= len(sentence); index++ {
			key := chainKey(sentence[index : index+markovChainLength-1])
			value := sentence[index+markovChainLength-1]
			chains[key] = append(chains[key], value)
		}
	}
	return chains
}

// createSummary walks the chain size times, retrying duplicates and dead
// ends a few times each before giving up on the rest.
func createSummary(size int, starts [][]string, stops map[string]bool,
	chains map[string][]string) []string {
	cache := []string{}
	for len(cache) < size {
		fresh := ""
		for attempt := 0; attempt < maxSummaryRetries; attempt++ {
			sentence, ok := createSentence(starts, stops, chains)
			if ok && !contains(cache, sentence) {
				fresh = sentence
				break
			}
		}
		if fresh == "" {
			return cache
		}
		cache = append(cache, fresh)
	}
	return cache
}

// createSentence walks from a random start n-gram until it hits a terminal
// one. Walks that dead-end or run away are abandoned.
func createSentence(starts [][]string, stops map[string]bool,
	chains map[string][]string) (string, bool) {
	sentence := append([]string(nil), starts[rand.Intn(len(starts))]...)

	for len(sentence) < maxSentenceWords {
		key := chainKey(sentence[len(sentence)-(markovChainLength-1):])
		followers := chains[key]
		if len(followers) == 0 {
			return "", false
		}
		sentence = append(sentence, followers[rand.Intn(len(followers))])
		if stops[chainKey(sentence[len(sentence)-markovChainLength:])] {
			return strings.Join(sentence, " "), true
		}
	}
	return "", false
}

func (s *MarkVShaney) printSummary(cache []string) error {
	conn := s.client.Conn

	if len(cache) == 0 {
		return conn.Print("There is nothing worth summarizing.")
	}

	width := 0
	for _, sentence := range cache {
		width = maxInt(width, len(sentence))
	}
	border := strings.Repeat("~", width)

	if err := conn.Print(border); err != nil {
		return err
	}
	for _, sentence := range cache {
		if err := conn.Print(sentence); err != nil {
			return err
		}
	}
	return conn.Print(border)
}
