package testevents

import (
	"math/rand/v2"
	"time"

	"github.com/okian/courtvision/internal/domain/model"
)

// classWeights biases generation toward two-point attempts, roughly the mix
// of a shooting workout.
var classWeights = []struct {
	class  model.DistanceClass
	weight int
}{
	{model.DistanceTwoPoint, 5},
	{model.DistanceThreePoint, 3},
	{model.DistanceFreeThrow, 2},
}

// makeRate per class, in percent.
var makeRate = map[model.DistanceClass]int{
	model.DistanceTwoPoint:   50,
	model.DistanceThreePoint: 35,
	model.DistanceFreeThrow:  75,
}

// generateShots creates n shots from seed and tallies what the server
// should count for them.
func generateShots(n int, seed uint64) ([]Shot, model.SessionStats) {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	r := rand.New(rand.NewPCG(seed, seed>>1|1))

	total := 0
	for _, w := range classWeights {
		total += w.weight
	}

	shots := make([]Shot, n)
	expected := model.SessionStats{}
	for i := range shots {
		class := pickClass(r.IntN(total))
		result := model.Miss
		if r.IntN(100) < makeRate[class] {
			result = model.Make
		}
		shots[i] = Shot{Result: result, DistanceClass: class}
		expected.Record(model.ShotEvent{Result: result, DistanceClass: class})
	}
	return shots, expected
}

func pickClass(n int) model.DistanceClass {
	for _, w := range classWeights {
		if n < w.weight {
			return w.class
		}
		n -= w.weight
	}
	return model.DistanceUnknown
}
