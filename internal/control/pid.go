package control

import (
	"fmt"

	"github.com/san-kum/stepsim/internal/dynamo"
)

// PID regulates the first state component toward Target.
type PID struct {
	Kp     float64
	Ki     float64
	Kd     float64
	Target float64

	integral float64
	prevErr  float64
	prevT    float64
	primed   bool
}

func NewPID(kp, ki, kd, target float64) *PID {
	return &PID{Kp: kp, Ki: ki, Kd: kd, Target: target}
}

func (p *PID) Compute(x dynamo.State, t float64) dynamo.Control {
	if len(x) == 0 {
		return dynamo.Control{0}
	}
	e := p.Target - x[0]

	if !p.primed {
		p.prevErr, p.prevT, p.primed = e, t, true
		return dynamo.Control{p.Kp * e}
	}

	dt := t - p.prevT
	if dt <= 0 {
		return dynamo.Control{p.Kp * e}
	}
	p.integral += e * dt
	derivative := (e - p.prevErr) / dt
	p.prevErr, p.prevT = e, t

	return dynamo.Control{p.Kp*e + p.Ki*p.integral + p.Kd*derivative}
}

// Reset clears integral and derivative state.
func (p *PID) Reset() {
	p.integral = 0
	p.prevErr = 0
	p.prevT = 0
	p.primed = false
}

func (p *PID) GetParams() map[string]float64 {
	return map[string]float64{
		"kp":     p.Kp,
		"ki":     p.Ki,
		"kd":     p.Kd,
		"target": p.Target,
	}
}

func (p *PID) SetParam(name string, value float64) error {
	switch name {
	case "kp":
		p.Kp = value
	case "ki":
		p.Ki = value
	case "kd":
		p.Kd = value
	case "target":
		p.Target = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
