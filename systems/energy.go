package systems

import (
	"github.com/Manalokosdev/Ribossome-sub000/components"
	"github.com/Manalokosdev/Ribossome-sub000/config"
	"github.com/Manalokosdev/Ribossome-sub000/parts"
)

// depositMassScale converts carcass part mass into chemical deposit.
const depositMassScale = 0.1

// UpdateEnergy runs one agent's feeding, upkeep and death roll.
// Returns true if the agent died this tick.
//
// Mouths withdraw from both chemical channels at their world position,
// bounded by absorption rate, local availability, a speed penalty and
// the enabler amplification. The alpha channel feeds, the beta channel
// damages; poison-resist organs scale both down by a fixed per-organ
// multiplier. Energy clamps to [0, capacity] after feeding, then
// maintenance is charged. Death is a per-tick probability draw that
// grows without bound as energy approaches zero and never quite reaches
// zero at high energy.
func UpdateEnergy(id, tick uint32, body *components.Body, pos *components.Position, rot *components.Rotation, en *components.Energy, env *Env, ec *config.EnergyConfig, table *parts.Table, dt float32) bool {
	n := int(body.Count)
	if n == 0 || !en.Alive {
		return false
	}

	rng := newLaneRng(id, tick)
	en.Capacity = body.Capacity

	resist := body.CountType(parts.PoisonResist)
	resistFactor := float32(1)
	for i := 0; i < resist; i++ {
		resistFactor *= float32(ec.ResistMult)
	}

	var cost, gain, damage float32
	invDT := float32(0)
	if dt > 0 {
		invDT = 1 / dt
	}

	for i := 0; i < n; i++ {
		p := &body.Parts[i]
		props := &table[p.Type]

		cost += float32(ec.BaseCost)
		switch {
		case parts.IsMouth(p.Type):
			scale := parts.MouthScale(p.Type)
			cost += props.Consumption * scale * p.Amp

			wx, wy := PartWorld(body, i, pos, rot.Heading)
			dx := wx - p.PrevWX
			dy := wy - p.PrevWY
			speed := fastSqrt(dx*dx+dy*dy) * invDT
			penalty := fastExp(-speed * float32(ec.SpeedPenalty))

			want := props.AbsorptionRate * scale * p.Amp * penalty
			gain += env.Chem.TakeAlpha(wx, wy, want) * resistFactor

			wantB := props.BetaAbsorption * scale * p.Amp * penalty
			damage += env.Chem.TakeBeta(wx, wy, wantB) * props.BetaDamage * resistFactor

			p.PrevWX, p.PrevWY = wx, wy

		case p.Type == parts.Propeller:
			cost += props.Consumption * (1 + p.Amp)

		case p.Type == parts.EmitterAlpha:
			cost += props.Consumption * (1 + p.Amp)
			if amt := absf(p.Alpha) * p.Amp * 0.05; amt > 0 {
				wx, wy := PartWorld(body, i, pos, rot.Heading)
				env.Chem.DepositAlpha(wx, wy, amt)
			}

		case p.Type == parts.EmitterBeta:
			cost += props.Consumption * (1 + p.Amp)
			if amt := absf(p.Beta) * p.Amp * 0.05; amt > 0 {
				wx, wy := PartWorld(body, i, pos, rot.Heading)
				env.Chem.DepositBeta(wx, wy, amt)
			}

		default:
			cost += props.Consumption * p.Amp
		}
	}

	// Feed, clamp to capacity, then charge maintenance.
	v := en.Value + gain - damage
	v = clampf(v, 0, en.Capacity)
	v -= cost
	en.Value = clampf(sanitize(v, 1e9), 0, en.Capacity)
	en.Age += dt

	// Death roll: probability base/max(energy, floor).
	denom := en.Value
	if denom < float32(ec.EnergyFloor) {
		denom = float32(ec.EnergyFloor)
	}
	if rng.next() < float32(ec.DeathBase)/denom {
		Die(body, pos, rot, en, env, ec, table, &rng)
		return true
	}
	return false
}

// Die marks the agent dead and stochastically redeposits its body mass
// into the chemical field at each part's position. The split between
// channels follows the body's mouth count: heavily mouthed bodies decay
// mostly into toxin.
func Die(body *components.Body, pos *components.Position, rot *components.Rotation, en *components.Energy, env *Env, ec *config.EnergyConfig, table *parts.Table, rng *laneRng) {
	en.Alive = false
	en.Value = 0

	alphaShare := 1 / float32(1+body.MouthCount())
	scatter := float32(ec.DepositScatter)
	for i := 0; i < int(body.Count); i++ {
		p := &body.Parts[i]
		wx, wy := PartWorld(body, i, pos, rot.Heading)
		amount := table[p.Type].Mass() * depositMassScale
		amount *= 1 + scatter*(rng.next()*2-1)
		if amount <= 0 {
			continue
		}
		env.Chem.DepositAlpha(wx, wy, amount*alphaShare)
		env.Chem.DepositBeta(wx, wy, amount*(1-alphaShare))
	}
}
