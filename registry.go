package hilo

import (
	"sort"

	"github.com/pkg/errors"
)

const (
	RandomStrategyName   = "PlaceholderLogic"
	CountingStrategyName = "CountingLogic"

	DefaultDeckName     = QueueDeckName
	DefaultStrategyName = RandomStrategyName
)

var deckFactories = map[string]func(seed uint64) Deck{
	ArrayDeckName: func(seed uint64) Deck { return NewArrayDeck(seed) },
	QueueDeckName: func(seed uint64) Deck { return NewQueueDeck(seed) },
}

var strategies = map[string]Strategy{
	RandomStrategyName:   RandomStrategy{},
	CountingStrategyName: CountingStrategy{},
}

// NewDeckByName creates a shuffled deck of the named kind.
func NewDeckByName(name string, seed uint64) (Deck, error) {
	newDeck, ok := deckFactories[name]
	if !ok {
		return nil, errors.Errorf("unknown deck %q (available: %v)", name, DeckNames())
	}
	return newDeck(seed), nil
}

// StrategyByName looks up a strategy by the name used in configuration files.
func StrategyByName(name string) (Strategy, error) {
	s, ok := strategies[name]
	if !ok {
		return nil, errors.Errorf("unknown logic %q (available: %v)", name, StrategyNames())
	}
	return s, nil
}

func DeckNames() []string {
	return sortedKeys(deckFactories)
}

func StrategyNames() []string {
	return sortedKeys(strategies)
}

func sortedKeys[V any](m map[string]V) []string {
	result := make([]string, 0, len(m))
	for k := range m {
		result = append(result, k)
	}
	sort.Strings(result)
	return result
}
