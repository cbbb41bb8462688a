package test

import (
	"math/rand"
	"time"

	"github.com/jaswdr/faker"
	"github.com/onsi/ginkgo/v2"
)

var (
	Faker  = faker.NewWithSeed(Source)
	Rand   = rand.New(Source)
	Source = rand.NewSource(ginkgo.GinkgoRandomSeed())
)

// RandomTimeBetween returns a timestamp in [from, to) truncated to the second,
// which matches the resolution of both export formats.
func RandomTimeBetween(from time.Time, to time.Time) time.Time {
	delta := to.Unix() - from.Unix()
	return time.Unix(from.Unix()+Rand.Int63n(delta), 0).UTC()
}
