package world

import (
	"fmt"
	"os"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/zeebo/xxh3"
	"gopkg.in/yaml.v3"
)

// Level is the static geometry of a sandbox map.
type Level struct {
	Name     string     `yaml:"name"`
	Spawn    mgl32.Vec3 `yaml:"spawn"`
	SpawnYaw float32    `yaml:"spawn_yaw"`
	Boxes    []Box      `yaml:"boxes"`

	// Hash identifies the source bytes the level was parsed from.
	Hash uint64 `yaml:"-"`
}

type Box struct {
	Name string     `yaml:"name"`
	Min  mgl32.Vec3 `yaml:"min"`
	Max  mgl32.Vec3 `yaml:"max"`
}

func (b Box) BBox() cube.BBox {
	return cube.Box(b.Min.X(), b.Min.Y(), b.Min.Z(), b.Max.X(), b.Max.Y(), b.Max.Z())
}

func LoadLevel(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseLevel(data)
}

func ParseLevel(data []byte) (*Level, error) {
	level := &Level{}
	if err := yaml.Unmarshal(data, level); err != nil {
		return nil, err
	}
	for i, b := range level.Boxes {
		if b.Min.X() >= b.Max.X() || b.Min.Y() >= b.Max.Y() || b.Min.Z() >= b.Max.Z() {
			return nil, fmt.Errorf("box %d (%q): min %v must be below max %v", i, b.Name, b.Min, b.Max)
		}
	}
	level.Hash = xxh3.Hash(data)
	return level, nil
}

// DefaultLevel is a floor with a low crawl space and a wall, enough to
// exercise walking, jumping and blocked stand-ups.
func DefaultLevel() *Level {
	return &Level{
		Name:  "default",
		Spawn: mgl32.Vec3{0, 0, 0},
		Boxes: []Box{
			{Name: "floor", Min: mgl32.Vec3{-20, -20, -1}, Max: mgl32.Vec3{20, 20, 0}},
			{Name: "crawlspace", Min: mgl32.Vec3{-2, 4, 1.4}, Max: mgl32.Vec3{2, 8, 2}},
			{Name: "wall", Min: mgl32.Vec3{6, -6, 0}, Max: mgl32.Vec3{7, 6, 3}},
		},
	}
}
