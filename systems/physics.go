package systems

import (
	"github.com/Manalokosdev/Ribossome-sub000/components"
	"github.com/Manalokosdev/Ribossome-sub000/config"
	"github.com/Manalokosdev/Ribossome-sub000/parts"
)

// UpdatePhysics accumulates forces and torque for one agent, updates its
// overdamped velocities and integrates position and heading.
//
// The model has no persisted momentum: velocity is force over
// mass-derived drag, exponentially smoothed against the previous value
// and hard-capped. A latched anchor freezes the agent outright for the
// tick and inflates its effective mass; the latch state driving the
// freeze was written last tick, and the next state is derived here from
// the anchor's alpha sign, independent of this tick's forces.
func UpdatePhysics(id uint32, body *components.Body, pos *components.Position, vel *components.Velocity, rot *components.Rotation, en *components.Energy, env *Env, pc *config.PhysicsConfig, table *parts.Table, dt float32, scratch []Neighbor) []Neighbor {
	n := int(body.Count)
	if n == 0 {
		return scratch
	}

	anchored := false
	for i := 0; i < n; i++ {
		if body.Parts[i].Type == parts.Anchor && body.Parts[i].Latched {
			anchored = true
			break
		}
	}

	mass := body.Mass
	effMass := mass
	if anchored {
		effMass += float32(pc.AnchorMassBoost)
	}

	maxForce := float32(pc.MaxForce)
	headCos := fastCos(rot.Heading)
	headSin := fastSin(rot.Heading)

	var fx, fy, torque float32

	// Ambient directional field acts on the center of mass.
	fx += float32(pc.AmbientX) * mass
	fy += float32(pc.AmbientY) * mass

	// Terrain slope pushes every part downhill. Latched anchors hold
	// against it entirely.
	if !anchored {
		slopeScale := float32(pc.SlopeScale)
		for i := 0; i < n; i++ {
			p := &body.Parts[i]
			wx, wy := PartWorld(body, i, pos, rot.Heading)
			gx, gy := env.Terrain.Slope(wx, wy)
			pfx := clampf(-gx*slopeScale*table[p.Type].Mass(), -maxForce, maxForce)
			pfy := clampf(-gy*slopeScale*table[p.Type].Mass(), -maxForce, maxForce)
			fx += pfx
			fy += pfy
			rx := p.LocalX*headCos - p.LocalY*headSin
			ry := p.LocalX*headSin + p.LocalY*headCos
			torque += rx*pfy - ry*pfx
		}
	}

	// External fluid coupling, with the reaction force handed back to
	// the solver's accumulation buffer.
	if env.Flow != nil {
		vfx, vfy := env.Flow.Velocity(pos.X, pos.Y)
		ffx := clampf((vfx-vel.X)*env.FlowCoupling*mass, -maxForce, maxForce)
		ffy := clampf((vfy-vel.Y)*env.FlowCoupling*mass, -maxForce, maxForce)
		fx += ffx
		fy += ffy
		if env.Force != nil {
			env.Force.Accumulate(pos.X, pos.Y, -ffx, -ffy)
		}
	}

	// Propeller thrust, perpendicular to the local segment, scaled by
	// the square of the enabler amplification and gated off when the
	// agent cannot pay the organ's upkeep.
	for i := 0; i < n; i++ {
		p := &body.Parts[i]
		if p.Type != parts.Propeller {
			continue
		}
		props := &table[p.Type]
		if en.Value <= props.Consumption {
			continue
		}
		theta := rot.Heading + p.SegAngle
		mag := clampf(props.ThrustForce*p.Amp*p.Amp, -maxForce, maxForce)
		pfx := -fastSin(theta) * mag
		pfy := fastCos(theta) * mag
		fx += pfx
		fy += pfy
		rx := p.LocalX*headCos - p.LocalY*headSin
		ry := p.LocalX*headSin + p.LocalY*headCos
		torque += rx*pfy - ry*pfx
	}

	// Pairwise neighbor forces: inverse-square with reduced two-body
	// mass, repulsive unless an attractor organ flips the sign, doubled
	// by a repulsor. Applied at the chain origin so collisions also spin
	// the body.
	scratch = scratch[:0]
	scratch = env.Grid.QueryInto(scratch, pos.X, pos.Y, id, env.Positions)
	if len(scratch) > 0 {
		rangeSq := float32(pc.RepulsionRange) * float32(pc.RepulsionRange)
		scale := float32(pc.RepulsionScale)
		sign := float32(-1)
		if body.HasType(parts.Attractor) {
			sign = 1
		}
		if body.HasType(parts.Repulsor) {
			scale *= 2
		}
		ox := body.OriginX*headCos - body.OriginY*headSin
		oy := body.OriginX*headSin + body.OriginY*headCos
		for _, nb := range scratch {
			if nb.DistSq > rangeSq || nb.DistSq < 1e-6 {
				continue
			}
			other := mass
			if int(nb.ID) < len(env.Masses) {
				other = env.Masses[nb.ID]
			}
			mRed := mass * other / (mass + other + 1e-6)
			mag := clampf(scale*mRed/nb.DistSq, 0, maxForce)
			inv := 1 / fastSqrt(nb.DistSq)
			pfx := sign * nb.DX * inv * mag
			pfy := sign * nb.DY * inv * mag
			fx += pfx
			fy += pfy
			torque += ox*pfy - oy*pfx
		}
	}

	// Overdamped update.
	if anchored {
		vel.X, vel.Y = 0, 0
		rot.AngVel = 0
	} else {
		drag := float32(pc.DragCoeff) * effMass
		if drag < 0.01 {
			drag = 0.01
		}
		tx := fx / drag
		ty := fy / drag

		// Heavier bodies respond more sluggishly.
		s := clampf(float32(pc.VelSmoothing)+0.5*mass/(mass+10), 0, 0.95)
		vx := vel.X*s + tx*(1-s)
		vy := vel.Y*s + ty*(1-s)

		maxSpeed := float32(pc.MaxSpeed)
		speedSq := vx*vx + vy*vy
		if speedSq > maxSpeed*maxSpeed {
			k := maxSpeed / fastSqrt(speedSq)
			vx *= k
			vy *= k
		}
		// The sanitize limit carries headroom over the cap: the approximate
		// square root can leave a capped component a fraction high, and
		// that must not read as corruption.
		vel.X = sanitize(vx, maxSpeed*1.1)
		vel.Y = sanitize(vy, maxSpeed*1.1)

		rotDrag := body.Inertia*float32(pc.RotDragCoeff) + body.Span*body.Span*float32(pc.LengthDrag)
		if body.HasType(parts.Gyro) {
			rotDrag *= 2
		}
		if rotDrag < 0.01 {
			rotDrag = 0.01
		}
		tAng := torque / rotDrag
		av := rot.AngVel*s + tAng*(1-s)
		av = clampf(av, -float32(pc.MaxAngVel), float32(pc.MaxAngVel))
		rot.AngVel = sanitize(av, float32(pc.MaxAngVel))
	}

	pos.X, pos.Y = WrapPosition(pos.X+vel.X*dt, pos.Y+vel.Y*dt, env.WorldW, env.WorldH)
	rot.Heading = NormalizeAngle(rot.Heading + rot.AngVel*dt)

	// Next tick's latch state from the anchor's alpha sign.
	for i := 0; i < n; i++ {
		if body.Parts[i].Type == parts.Anchor {
			body.Parts[i].Latched = body.Parts[i].Alpha > 0
		}
	}

	return scratch
}
