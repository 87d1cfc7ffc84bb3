package ecs

// project returns a with every attribute outside m reset to its zero value.
func project(a Agent, m Mask) Agent {
	var out Agent
	merge(&out, a, m)
	return out
}

// merge copies into dst the attributes of src whose kinds are in m.
func merge(dst *Agent, src Agent, m Mask) {
	if m.Has(KindName) {
		dst.Name = src.Name
	}
	if m.Has(KindHealth) {
		dst.Health = src.Health
	}
	if m.Has(KindAction) {
		dst.Action = src.Action
	}
	if m.Has(KindAttacker) {
		dst.Attacker = src.Attacker
	}
	if m.Has(KindEnemy) {
		dst.Enemy = src.Enemy
	}
	if m.Has(KindDamage) {
		dst.Damage = src.Damage
	}
}
