// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"fmt"

	"goquake3/math/vec"
	"goquake3/model"
)

type entityHandler func(p *spawnParser, e *Entity)

var entityHandlers = map[string]entityHandler{
	"info_player_deathmatch": (*spawnParser).deathmatch,
}

type spawnParser struct {
	capacity int
	points   []model.SpawnPoint
	dropped  int
}

func newSpawnParser(capacity int) *spawnParser {
	return &spawnParser{capacity: capacity}
}

func (p *spawnParser) parse(es []*Entity) {
	for _, e := range es {
		cn, ok := e.Name()
		if !ok {
			continue
		}
		if h, ok := entityHandlers[cn]; ok {
			h(p, e)
		}
	}
}

// deathmatch reads angle and origin. Values are parsed like sscanf does,
// components that fail to parse stay 0.
func (p *spawnParser) deathmatch(e *Entity) {
	if len(p.points) >= p.capacity {
		p.dropped++
		return
	}
	var sp model.SpawnPoint
	if v, ok := e.Property("angle"); ok {
		fmt.Sscanf(v, "%f", &sp.Angle)
	}
	if v, ok := e.Property("origin"); ok {
		var o vec.Vec3
		fmt.Sscanf(v, "%f %f %f", &o.X, &o.Y, &o.Z)
		sp.Origin = o.Swizzle()
	}
	p.points = append(p.points, sp)
}

// ParseSpawnPoints extracts at most capacity spawn points from entity
// text. It also returns the number of spawn points that did not fit.
func ParseSpawnPoints(data []byte, capacity int) ([]model.SpawnPoint, int) {
	p := newSpawnParser(capacity)
	p.parse(ParseEntities(data))
	return p.points, p.dropped
}
