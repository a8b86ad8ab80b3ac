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

// List provides a fluent API for building ordered entry sequences.
// Order is preserved and duplicate keywords are kept.
type List struct {
	entries []Entry
}

// NewList creates a List with room for capacity entries.
func NewList(capacity int) *List {
	return &List{
		entries: make([]Entry, 0, capacity),
	}
}

// Add appends an entry with an explicit Value.
func (l *List) Add(keyword string, value Value, comment string) *List {
	l.entries = append(l.entries, Entry{Keyword: keyword, Value: value, Comment: comment})
	return l
}

// AddString is a convenience method for adding string values.
func (l *List) AddString(keyword, value, comment string) *List {
	return l.Add(keyword, Str(value), comment)
}

// AddInt is a convenience method for adding int values.
func (l *List) AddInt(keyword string, value int, comment string) *List {
	return l.Add(keyword, Int(value), comment)
}

// AddFloat64 is a convenience method for adding float64 values.
func (l *List) AddFloat64(keyword string, value float64, comment string) *List {
	return l.Add(keyword, Float64(value), comment)
}

// AddBool is a convenience method for adding bool values.
func (l *List) AddBool(keyword string, value bool, comment string) *List {
	return l.Add(keyword, Bool(value), comment)
}

// AddAny converts value with ToValue before appending.
func (l *List) AddAny(keyword string, value any, comment string) *List {
	return l.Add(keyword, ToValue(value), comment)
}

// Append adds already built entries.
func (l *List) Append(entries ...Entry) *List {
	l.entries = append(l.entries, entries...)
	return l
}

// Len returns the number of entries so far.
func (l *List) Len() int {
	return len(l.entries)
}

// Entries returns the built sequence.
func (l *List) Entries() []Entry {
	return l.entries
}
