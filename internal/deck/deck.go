// Package deck loads flashcard decks from JSON, YAML or Parley .kvtml files.
package deck

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrEmpty is returned when a deck has no usable cards.
var ErrEmpty = errors.New("deck has no cards")

// Card is one flashcard.
type Card struct {
	ID    string `json:"id" yaml:"id"`
	Front string `json:"front" yaml:"front"`
	Back  string `json:"back" yaml:"back"`
}

// Deck is a loaded flashcard deck.
type Deck struct {
	Path  string
	Title string
	Cards []Card
}

// Load reads the deck at path, choosing the parser by extension.
func Load(path string) (*Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read deck: %w", err)
	}

	var d *Deck
	switch strings.ToLower(filepath.Ext(path)) {
	case ".kvtml":
		d, err = ParseKVTML(data)
	case ".yaml", ".yml":
		d, err = parseList(data, yaml.Unmarshal)
	default:
		d, err = parseList(data, json.Unmarshal)
	}
	if err != nil {
		return nil, fmt.Errorf("parse deck %s: %w", path, err)
	}
	d.Path = path
	if d.Title == "" {
		d.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return d, nil
}

// rawCard accepts numeric or string ids.
type rawCard struct {
	ID    any    `json:"id" yaml:"id"`
	Front string `json:"front" yaml:"front"`
	Back  string `json:"back" yaml:"back"`
}

func parseList(data []byte, unmarshal func([]byte, any) error) (*Deck, error) {
	var raw []rawCard
	if err := unmarshal(data, &raw); err != nil {
		return nil, err
	}
	d := &Deck{}
	for i, r := range raw {
		id := idString(r.ID)
		if id == "" {
			id = strconv.Itoa(i)
		}
		d.add(Card{ID: id, Front: r.Front, Back: r.Back})
	}
	if len(d.Cards) == 0 {
		return nil, ErrEmpty
	}
	return d, nil
}

func idString(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// add keeps cards with both sides present.
func (d *Deck) add(c Card) {
	c.Front = strings.TrimSpace(c.Front)
	c.Back = strings.TrimSpace(c.Back)
	if c.Front == "" || c.Back == "" {
		return
	}
	d.Cards = append(d.Cards, c)
}

type kvtmlDoc struct {
	Title   string       `xml:"information>title"`
	Entries []kvtmlEntry `xml:"entries>entry"`
}

type kvtmlEntry struct {
	ID           string             `xml:"id,attr"`
	Translations []kvtmlTranslation `xml:"translation"`
}

type kvtmlTranslation struct {
	ID   string `xml:"id,attr"`
	Text string `xml:"text"`
}

// ParseKVTML decodes a Parley vocabulary file. Translation 0 is the front
// of a card and translation 1 the back; entries missing either are skipped.
func ParseKVTML(data []byte) (*Deck, error) {
	var doc kvtmlDoc
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode kvtml: %w", err)
	}

	d := &Deck{Title: strings.TrimSpace(doc.Title)}
	for _, e := range doc.Entries {
		c := Card{ID: e.ID}
		for _, t := range e.Translations {
			switch t.ID {
			case "0":
				c.Front = t.Text
			case "1":
				c.Back = t.Text
			}
		}
		d.add(c)
	}
	if len(d.Cards) == 0 {
		return nil, ErrEmpty
	}
	return d, nil
}
