// Package classifier maps a DeviceProfile to a coarse performance tier.
//
// Android-like devices are scored against per-GPU-vendor minimums: they
// start at High and lose one tier for every core count, frequency, GPU
// memory or system memory value below the vendor minimum, never dropping
// below Low. Apple-like devices are classified from the leading number of
// their model identifier ("iPhone13,2" -> 13) using per-product-line
// breakpoints. Anything that cannot be classified is tier.Unknown; the
// classifier never returns an error.
//
// Basic usage:
//
//	t := classifier.Estimate(profile.DeviceProfile{
//	    Platform: profile.AppleLike,
//	    Model:    "iPhone14,2",
//	})
//	// t == tier.High
//
// Classification is a pure function of the profile and the Policy; a
// Classifier is safe for concurrent use.
package classifier

import (
	"strings"

	"github.com/jamesainslie/spectier/pkg/spectier/profile"
	"github.com/jamesainslie/spectier/pkg/spectier/tier"
)

// Route names the rule that produced a decision.
type Route string

// Classification routes.
const (
	RouteAndroid       Route = "android"
	RouteAndroidVendor Route = "android-unknown-vendor"
	RouteApplePhone    Route = "apple-phone"
	RouteAppleTablet   Route = "apple-tablet"
	RouteAppleMedia    Route = "apple-media"
	RouteAppleModel    Route = "apple-unknown-model"
	RouteUnsupported   Route = "unsupported"
)

// Decision is a classification result together with how it was reached.
type Decision struct {
	// Tier is the estimated performance tier.
	Tier tier.Tier `json:"tier" yaml:"tier"`

	// Route is the rule that produced Tier.
	Route Route `json:"route" yaml:"route"`

	// ThresholdProfile is the vendor profile used on the android route.
	ThresholdProfile string `json:"threshold_profile,omitempty" yaml:"threshold_profile,omitempty"`

	// Deductions lists the failed minimum checks on the android route.
	Deductions []Deduction `json:"deductions,omitempty" yaml:"deductions,omitempty"`

	// ModelID is the parsed model number on apple routes.
	ModelID int `json:"model_id,omitempty" yaml:"model_id,omitempty"`

	// ModelParsed reports whether ModelID was parsed successfully.
	ModelParsed bool `json:"model_parsed,omitempty" yaml:"model_parsed,omitempty"`
}

// Classifier classifies device profiles under a fixed Policy.
type Classifier struct {
	policy Policy
}

// New returns a Classifier for the given policy. The policy is copied.
func New(policy Policy) (*Classifier, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &Classifier{policy: policy.clone()}, nil
}

// defaultClassifier serves the package-level Estimate and Classify.
var defaultClassifier = &Classifier{policy: DefaultPolicy()}

// Default returns the classifier using DefaultPolicy.
func Default() *Classifier {
	return defaultClassifier
}

// Estimate classifies p with the default policy.
func Estimate(p profile.DeviceProfile) tier.Tier {
	return defaultClassifier.Estimate(p)
}

// Classify classifies p with the default policy and explains the result.
func Classify(p profile.DeviceProfile) Decision {
	return defaultClassifier.Classify(p)
}

// Policy returns a copy of the classifier's policy.
func (c *Classifier) Policy() Policy {
	return c.policy.clone()
}

// Estimate returns the performance tier for p.
func (c *Classifier) Estimate(p profile.DeviceProfile) tier.Tier {
	return c.Classify(p).Tier
}

// Classify returns the performance tier for p and how it was reached.
func (c *Classifier) Classify(p profile.DeviceProfile) Decision {
	switch p.Platform {
	case profile.AndroidLike:
		return c.classifyAndroid(p)
	case profile.AppleLike:
		return c.classifyApple(p)
	default:
		return Decision{Tier: tier.Unknown, Route: RouteUnsupported}
	}
}

func (c *Classifier) classifyAndroid(p profile.DeviceProfile) Decision {
	if !c.policy.Known(p.GPUVendor) {
		return Decision{Tier: tier.Unknown, Route: RouteAndroidVendor}
	}

	thresholds, name := c.policy.ThresholdsFor(p.GPUVendor)
	t, deductions := Score(p, thresholds)

	return Decision{
		Tier:             t,
		Route:            RouteAndroid,
		ThresholdProfile: name,
		Deductions:       deductions,
	}
}

func (c *Classifier) classifyApple(p profile.DeviceProfile) Decision {
	for _, line := range productLines {
		if !strings.HasPrefix(p.Model, line.prefix) {
			continue
		}

		id, ok := ParseModelID(p.Model, line.prefix)
		if !ok {
			return Decision{Tier: tier.Unknown, Route: line.route}
		}
		return Decision{
			Tier:        line.tierOf(id, c.policy.Tablet),
			Route:       line.route,
			ModelID:     id,
			ModelParsed: true,
		}
	}

	return Decision{Tier: tier.Unknown, Route: RouteAppleModel}
}
