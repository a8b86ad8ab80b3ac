// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package header

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// HierarchPrefix marks an extended-length keyword.
	HierarchPrefix = "HIERARCH "

	// MaxKeywordLength is the standard FITS keyword length limit.
	MaxKeywordLength = 8

	// TimeFormat is the layout of date-time card values, with microseconds.
	TimeFormat = "2006-01-02T15:04:05.000000"
)

// Entry is one FITS header card: keyword, value and an optional comment.
// An empty Comment means the card carries none.
type Entry struct {
	Keyword string `json:"keyword" yaml:"keyword"`
	Value   Value  `json:"value" yaml:"value"`
	Comment string `json:"comment,omitempty" yaml:"comment,omitempty"`
}

// New returns an Entry after converting value with ToValue.
func New(keyword string, value any, comment string) Entry {
	return Entry{
		Keyword: keyword,
		Value:   ToValue(value),
		Comment: comment,
	}
}

// Any returns the underlying scalar value, or nil when unset.
func (e Entry) Any() any {
	if e.Value == nil {
		return nil
	}
	return e.Value.Any()
}

// Validate checks the keyword follows the FITS card conventions.
func (e Entry) Validate() error {
	if err := ValidateKeyword(e.Keyword); err != nil {
		return err
	}
	if e.Value == nil {
		return fmt.Errorf("keyword %q has no value", e.Keyword)
	}
	return nil
}

// IsHierarch reports whether keyword uses the HIERARCH long-keyword convention.
func IsHierarch(keyword string) bool {
	return strings.HasPrefix(keyword, HierarchPrefix)
}

// ValidateKeyword checks keyword is either a standard FITS keyword (at most
// eight characters from A-Z, 0-9, '-' and '_') or a HIERARCH keyword.
func ValidateKeyword(keyword string) error {
	if keyword == "" {
		return errors.New("keyword cannot be empty")
	}
	if IsHierarch(keyword) {
		if strings.TrimSpace(strings.TrimPrefix(keyword, HierarchPrefix)) == "" {
			return fmt.Errorf("keyword %q has an empty HIERARCH name", keyword)
		}
		return nil
	}
	if len(keyword) > MaxKeywordLength {
		return fmt.Errorf("keyword %q exceeds %d characters", keyword, MaxKeywordLength)
	}
	for _, r := range keyword {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return fmt.Errorf("keyword %q contains invalid character %q", keyword, r)
		}
	}
	return nil
}

// UnmarshalJSON custom unmarshaler for Entry to handle the Value interface.
// Integral JSON numbers decode as integers, the rest as float64.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var tmp struct {
		Keyword string `json:"keyword"`
		Value   any    `json:"value"`
		Comment string `json:"comment"`
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&tmp); err != nil {
		return err
	}

	e.Keyword = tmp.Keyword
	e.Value = ToValue(tmp.Value)
	e.Comment = tmp.Comment
	return nil
}

// UnmarshalYAML custom unmarshaler for Entry to handle the Value interface.
func (e *Entry) UnmarshalYAML(node *yaml.Node) error {
	var tmp struct {
		Keyword string `yaml:"keyword"`
		Value   any    `yaml:"value"`
		Comment string `yaml:"comment"`
	}

	if err := node.Decode(&tmp); err != nil {
		return err
	}

	e.Keyword = tmp.Keyword
	e.Value = ToValue(tmp.Value)
	e.Comment = tmp.Comment
	return nil
}

// Find returns the first entry with keyword.
func Find(entries []Entry, keyword string) (Entry, bool) {
	for _, e := range entries {
		if e.Keyword == keyword {
			return e, true
		}
	}
	return Entry{}, false
}

// Has reports whether any entry carries keyword.
func Has(entries []Entry, keyword string) bool {
	_, ok := Find(entries, keyword)
	return ok
}

// Keywords returns the keywords of entries in order, duplicates included.
func Keywords(entries []Entry) []string {
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Keyword
	}
	return keys
}
