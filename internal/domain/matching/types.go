package matching

import "errors"

var ErrInvalidInput = errors.New("invalid matching input")

const MaxCGPA = 10.0

// CGPA is an optional grade point average. The zero value is "not provided".
type CGPA struct {
	value float64
	ok    bool
}

func SomeCGPA(v float64) CGPA { return CGPA{value: v, ok: true} }

func NoCGPA() CGPA { return CGPA{} }

// CGPAFromPtr maps a nullable column onto CGPA.
func CGPAFromPtr(v *float64) CGPA {
	if v == nil {
		return NoCGPA()
	}
	return SomeCGPA(*v)
}

func (c CGPA) Get() (float64, bool) { return c.value, c.ok }

func (c CGPA) IsSet() bool { return c.ok }

type Attempt struct {
	TopicName string
	IsCorrect bool
}

// Student is the read-time snapshot of a student profile that scoring needs.
type Student struct {
	CGPA     CGPA
	Skills   []string
	Attempts []Attempt
}

type Job struct {
	MinCGPA        float64
	RequiredSkills []string
}

type Breakdown struct {
	CGPA        float64
	Skills      float64
	Performance float64
}

type Result struct {
	Score     float64
	Breakdown Breakdown
}
