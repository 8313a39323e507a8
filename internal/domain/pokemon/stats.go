package pokemon

// StatBlock holds the six battle stats. The JSON keys match the bundled
// pokedex dataset, which uses the display spellings.
type StatBlock struct {
	HP      int `json:"HP"`
	Attack  int `json:"Attack"`
	Defence int `json:"Defence"`
	SpAtk   int `json:"Sp. Atk"`
	SpDef   int `json:"Sp. Def"`
	Speed   int `json:"Speed"`
}

// Total returns the sum of all six stats
func (s StatBlock) Total() int {
	return s.HP + s.Attack + s.Defence + s.SpAtk + s.SpDef + s.Speed
}

// Add returns a block with each stat increased by the matching stat of other
func (s StatBlock) Add(other StatBlock) StatBlock {
	return StatBlock{
		HP:      s.HP + other.HP,
		Attack:  s.Attack + other.Attack,
		Defence: s.Defence + other.Defence,
		SpAtk:   s.SpAtk + other.SpAtk,
		SpDef:   s.SpDef + other.SpDef,
		Speed:   s.Speed + other.Speed,
	}
}

// Each calls fn once per stat in display order, replacing the stat with the
// returned value. Used for per-level bonus rolls.
func (s StatBlock) Each(fn func(current int) int) StatBlock {
	s.HP = fn(s.HP)
	s.Attack = fn(s.Attack)
	s.Defence = fn(s.Defence)
	s.SpAtk = fn(s.SpAtk)
	s.SpDef = fn(s.SpDef)
	s.Speed = fn(s.Speed)
	return s
}
