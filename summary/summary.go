// SPDX-License-Identifier: GPL-2.0-or-later

package summary

import (
	"sort"
	"strconv"

	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
	"gopkg.in/yaml.v3"

	"goquake3/bsp"
)

type Spawn struct {
	Angle  float32    `yaml:"angle" json:"angle" cbor:"angle"`
	Origin [3]float32 `yaml:"origin,flow" json:"origin" cbor:"origin"`
}

// Summary describes a loaded map.
type Summary struct {
	Name       string            `yaml:"name" json:"name" cbor:"name"`
	Version    int32             `yaml:"version" json:"version" cbor:"version"`
	Checksum   string            `yaml:"checksum" json:"checksum" cbor:"checksum"`
	Lumps      map[string]int    `yaml:"lumps" json:"lumps" cbor:"lumps"`
	Clusters   int32             `yaml:"clusters" json:"clusters" cbor:"clusters"`
	FaceTypes  map[string]int    `yaml:"faceTypes" json:"faceTypes" cbor:"faceTypes"`
	Textures   []string          `yaml:"textures" json:"textures" cbor:"textures"`
	Entities   map[string]int    `yaml:"entities" json:"entities" cbor:"entities"`
	Spawns     []Spawn           `yaml:"spawns" json:"spawns" cbor:"spawns"`
	Dropped    int               `yaml:"droppedSpawns,omitempty" json:"droppedSpawns,omitempty" cbor:"droppedSpawns,omitempty"`
	Solid      int               `yaml:"solidLeafs" json:"solidLeafs" cbor:"solidLeafs"`
	Worldspawn map[string]string `yaml:"worldspawn,omitempty" json:"worldspawn,omitempty" cbor:"worldspawn,omitempty"`
}

func New(m *bsp.Map) *Summary {
	s := &Summary{
		Name:     m.Name(),
		Version:  m.Version,
		Checksum: strconv.FormatUint(m.Checksum, 16),
		Lumps: map[string]int{
			"entities":    len(m.EntityData),
			"textures":    len(m.Textures),
			"planes":      len(m.Planes),
			"nodes":       len(m.Nodes),
			"leafs":       len(m.Leafs),
			"leaffaces":   len(m.LeafFaces),
			"leafbrushes": len(m.LeafBrushes),
			"models":      len(m.Models),
			"brushes":     len(m.Brushes),
			"brushsides":  len(m.BrushSides),
			"vertexes":    len(m.Vertexes),
			"meshverts":   len(m.MeshVerts),
			"effects":     len(m.Effects),
			"faces":       len(m.Faces),
			"lightmaps":   len(m.Lightmaps),
			"lightvols":   len(m.LightVols),
			"visdata":     len(m.Vis.Vectors),
		},
		Clusters:  m.Vis.NumVectors,
		FaceTypes: map[string]int{},
		Entities:  map[string]int{},
		Dropped:   m.DroppedSpawnPoints(),
	}
	for i := range m.Faces {
		s.FaceTypes[m.Faces[i].Type.String()]++
	}
	for i := range m.Textures {
		s.Textures = append(s.Textures, m.Textures[i].String())
	}
	sort.Strings(s.Textures)
	for _, e := range m.Entities {
		n, ok := e.Name()
		if !ok {
			n = "<none>"
		}
		s.Entities[n]++
		if n == "worldspawn" && s.Worldspawn == nil {
			s.Worldspawn = map[string]string{}
			for _, k := range e.PropertyNames() {
				s.Worldspawn[k], _ = e.Property(k)
			}
		}
	}
	for _, sp := range m.SpawnPoints() {
		s.Spawns = append(s.Spawns, Spawn{Angle: sp.Angle, Origin: sp.Origin.Array()})
	}
	for i := range m.Leafs {
		if m.Leafs[i].Cluster < 0 {
			s.Solid++
		}
	}
	return s
}

// Formats lists the names accepted by Marshal.
var Formats = []string{"yaml", "json", "cbor"}

func (s *Summary) Marshal(format string) ([]byte, error) {
	switch format {
	case "yaml":
		return yaml.Marshal(s)
	case "json":
		return json.MarshalIndent(s, "", "  ")
	case "cbor":
		return cbor.Marshal(s)
	}
	return nil, errors.Errorf("unknown format %q", format)
}

// Unmarshal reads a summary written by Marshal.
func Unmarshal(format string, data []byte) (*Summary, error) {
	s := &Summary{}
	var err error
	switch format {
	case "yaml":
		err = yaml.Unmarshal(data, s)
	case "json":
		err = json.Unmarshal(data, s)
	case "cbor":
		err = cbor.Unmarshal(data, s)
	default:
		return nil, errors.Errorf("unknown format %q", format)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s summary", format)
	}
	return s, nil
}
