// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"bytes"
	"sort"
)

type Entity struct {
	properties map[string]string
}

func NewEntity(p map[string]string) *Entity {
	return &Entity{properties: p}
}

func (e *Entity) Property(name string) (string, bool) {
	v, ok := e.properties[name]
	return v, ok
}

func (e *Entity) Name() (string, bool) {
	v, ok := e.properties["classname"]
	return v, ok
}

func (e *Entity) PropertyNames() []string {
	n := []string{}
	for k := range e.properties {
		n = append(n, k)
	}
	sort.Strings(n)
	return n
}

// nextToken returns the text between the next pair of double quotes
// starting at s. A '}' before the opening quote ends the search, next
// then points at the '}'.
func nextToken(data []byte, s int) (tok string, found bool, next int) {
	for s < len(data) && data[s] != '"' && data[s] != '}' {
		s++
	}
	if s >= len(data) || data[s] == '}' {
		return "", false, s
	}
	s++
	e := bytes.IndexByte(data[s:], '"')
	if e < 0 {
		return string(data[s:]), true, len(data)
	}
	return string(data[s : s+e]), true, s + e + 1
}

func ParseEntities(data []byte) []*Entity {
	/*
		The data looks like:
		{
		"classname" "info_player_deathmatch"
		"angle" "360"
		"origin" "216 1328 24"
		}
		Values have no escapes, a NUL ends the text.
	*/
	if i := bytes.IndexByte(data, 0); i >= 0 {
		data = data[:i]
	}
	es := []*Entity{}
	s := 0
	for s < len(data) {
		for s < len(data) && data[s] != '{' {
			s++
		}
		if s >= len(data) {
			break
		}
		props := make(map[string]string)
		for s < len(data) && data[s] != '}' {
			var key, value string
			var ok bool
			key, ok, s = nextToken(data, s)
			value, _, s = nextToken(data, s)
			if ok {
				props[key] = value
			}
		}
		es = append(es, NewEntity(props))
	}
	return es
}
