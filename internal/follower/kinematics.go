package follower

import (
	"time"

	"github.com/fieldworks/guidance-simulator/guidance"
	"github.com/fieldworks/guidance-simulator/model"
)

// StepPosition integrates a commanded NED velocity over one tick. The
// simulated vehicle is a point mass in velocity mode: the autopilot is
// assumed to track the commanded velocity perfectly within a tick.
func StepPosition(pos model.NED, vel guidance.Vec3, dt time.Duration) model.NED {
	s := dt.Seconds()
	return model.NED{
		North: pos.North + vel.North*s,
		East:  pos.East + vel.East*s,
		Down:  pos.Down + vel.Down*s,
	}
}
