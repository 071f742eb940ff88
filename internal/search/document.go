// Package search provides full-text search over atari rules using Bleve.
// The index mirrors the active rule set and is rebuilt whenever the rule set changes.
package search

import (
	"strconv"

	"github.com/laneticket/atari-server/internal/domain"
	"github.com/laneticket/atari-server/internal/normalize"
)

// RuleDocument is the indexed form of one atari rule.
//
// Rule ids need not be unique across a rule set, so documents are keyed by
// the rule's position in the set.
type RuleDocument struct {
	DocID       string
	RuleID      string
	SongID      string
	SongKey     string // normalized song id
	Difficulty  string
	Title       string
	TitleKey    string // normalized title
	Description string
	URL         string
	Priority    int
}

// NewRuleDocument builds the document for the rule at position pos.
func NewRuleDocument(pos int, r domain.AtariRule) *RuleDocument {
	return &RuleDocument{
		DocID:       strconv.Itoa(pos),
		RuleID:      r.ID,
		SongID:      r.SongID,
		SongKey:     normalize.SearchText(r.SongID),
		Difficulty:  string(r.Difficulty),
		Title:       r.Title,
		TitleKey:    normalize.SearchText(r.Title),
		Description: r.Description,
		URL:         r.URL,
		Priority:    r.Priority,
	}
}

// ToMap converts the document to a map keyed by the mapped field names.
func (d *RuleDocument) ToMap() map[string]any {
	m := map[string]any{
		"rule_id":    d.RuleID,
		"song_id":    d.SongID,
		"song_key":   d.SongKey,
		"difficulty": d.Difficulty,
		"title":      d.Title,
		"title_key":  d.TitleKey,
		"url":        d.URL,
		"priority":   float64(d.Priority),
	}
	if d.Description != "" {
		m["description"] = d.Description
	}
	return m
}
