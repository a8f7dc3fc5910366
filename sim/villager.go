// Package sim provides a small resource-camp domain: a villager blackboard
// and the actions to chop wood, build storage and gather resources. It is
// used by the demo binary and the integration tests.
package sim

import (
	"github.com/kasuganosora/aitoolkit/goap"
	"github.com/kasuganosora/aitoolkit/script"
)

// Villager is the blackboard of one camp villager. Journal records the
// names of actions as they are really executed; it is bookkeeping only and
// takes no part in equality or hashing.
type Villager struct {
	Storage bool
	Wood    int
	Food    int
	Gold    int
	Stone   int
	Journal []string
}

// Equal compares the decision-relevant fields.
func (v Villager) Equal(o Villager) bool {
	return v.Storage == o.Storage &&
		v.Wood == o.Wood &&
		v.Food == o.Food &&
		v.Gold == o.Gold &&
		v.Stone == o.Stone
}

// Hash is FNV-1a over the decision-relevant fields.
func (v Villager) Hash() uint64 {
	h := uint64(14695981039346656037)
	mix := func(x uint64) {
		h ^= x
		h *= 1099511628211
	}
	if v.Storage {
		mix(1)
	} else {
		mix(0)
	}
	mix(uint64(v.Wood))
	mix(uint64(v.Food))
	mix(uint64(v.Gold))
	mix(uint64(v.Stone))
	return h
}

// Goal returns the camp goal state: storage built, no wood left over, and
// the requested stockpiles.
func Goal(food, gold, stone int) Villager {
	return Villager{Storage: true, Food: food, Gold: gold, Stone: stone}
}

// Bind exposes a villager's decision-relevant fields to scripts via $bb.
// The binding is read-only; mutations go through plan actions.
func Bind(v *Villager) *script.Binding {
	return &script.Binding{
		Get: func(key string) interface{} {
			switch key {
			case "storage":
				return v.Storage
			case "wood":
				return v.Wood
			case "food":
				return v.Food
			case "gold":
				return v.Gold
			case "stone":
				return v.Stone
			}
			return nil
		},
	}
}

// Actions returns the villager action catalog in its canonical order.
func Actions() []goap.Action[Villager] {
	return []goap.Action[Villager]{
		ChopWood{},
		BuildStorage{},
		GatherFood{},
		MineGold{},
		MineStone{},
	}
}

// ChopWood adds one wood. Always admissible.
type ChopWood struct{}

func (ChopWood) Cost(Villager) float64            { return 1 }
func (ChopWood) CheckPreconditions(Villager) bool { return true }
func (ChopWood) ApplyEffects(v *Villager, dry bool) {
	v.Wood++
	if !dry {
		v.Journal = append(v.Journal, "chop_wood")
	}
}

// BuildStorage consumes ten wood to raise the storage hut.
type BuildStorage struct{}

func (BuildStorage) Cost(Villager) float64 { return 1 }
func (BuildStorage) CheckPreconditions(v Villager) bool {
	return v.Wood >= 10 && !v.Storage
}
func (BuildStorage) ApplyEffects(v *Villager, dry bool) {
	v.Storage = true
	v.Wood -= 10
	if !dry {
		v.Journal = append(v.Journal, "build_storage")
	}
}

// GatherFood adds one food; needs the storage hut.
type GatherFood struct{}

func (GatherFood) Cost(Villager) float64              { return 1 }
func (GatherFood) CheckPreconditions(v Villager) bool { return v.Storage }
func (GatherFood) ApplyEffects(v *Villager, dry bool) {
	v.Food++
	if !dry {
		v.Journal = append(v.Journal, "gather_food")
	}
}

// MineGold adds one gold; needs the storage hut.
type MineGold struct{}

func (MineGold) Cost(Villager) float64              { return 1 }
func (MineGold) CheckPreconditions(v Villager) bool { return v.Storage }
func (MineGold) ApplyEffects(v *Villager, dry bool) {
	v.Gold++
	if !dry {
		v.Journal = append(v.Journal, "mine_gold")
	}
}

// MineStone adds one stone; needs the storage hut.
type MineStone struct{}

func (MineStone) Cost(Villager) float64              { return 1 }
func (MineStone) CheckPreconditions(v Villager) bool { return v.Storage }
func (MineStone) ApplyEffects(v *Villager, dry bool) {
	v.Stone++
	if !dry {
		v.Journal = append(v.Journal, "mine_stone")
	}
}
