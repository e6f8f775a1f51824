package exercises

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/fitchpad/fitchpad-cli/pkg/session"
)

// ErrNoSuchExercise is returned for an index outside the bundled set
var ErrNoSuchExercise = errors.New("no such exercise")

// Exercise is a proof task: derive Conclusion from Assumptions
type Exercise struct {
	Assumptions []string `json:"assumptions" yaml:"assumptions"`
	Conclusion  string   `json:"conclusion" yaml:"conclusion"`
}

var bundled = []Exercise{
	{Assumptions: []string{"A"}, Conclusion: "A ∨ B"},
	{Assumptions: []string{"(P ∨ Q) → (R ∧ S)"}, Conclusion: "(P ∧ Q) → (R ∨ S)"},
	{Assumptions: []string{"S(a,b) ∧ ¬S(b,c)", "b=a"}, Conclusion: "¬(b=c)"},
	{Assumptions: []string{"A ∨ B", "A ∨ C"}, Conclusion: "A ∨ (B ∧ C)"},
	{Assumptions: []string{"∀x ∀y Cuddles(x,y)"}, Conclusion: "∀x ∃y Cuddles(x,y)"},
	{Assumptions: []string{"∃x P(x) ∨ ∃x Q(x)"}, Conclusion: "∃x (P(x) ∨ Q(x))"},
	{Assumptions: []string{"∀x ∀y (p(x,y)=p(y,x))", "∀x (p(x,a)=x)"}, Conclusion: "∃z (p(z,b)=b)"},
	{Assumptions: []string{"∀x (∃y R(x,y) → P(x))", "∀x ∀y ((x=y) → R(x,y))"}, Conclusion: "P(a)"},
	{Assumptions: nil, Conclusion: "∀ x (x = x)"},
	{Assumptions: []string{"∃x ∀y P(x,y)"}, Conclusion: "∀y ∃x P(x,y)"},
	{Assumptions: []string{"R(a,b) ∧ (R(b,a) → R(c,c))", "a=b"}, Conclusion: "¬R(c,a) → ¬(a=c)"},
	{Assumptions: []string{"(A → B) ∨ ((B → C) → C)", "A ∧ ¬B"}, Conclusion: "C"},
	{Assumptions: []string{"∀x ∃y (P(x) → R(x,y))", "∀x ∀y ((R(x,y) ∨ (x=a)) → P(x))"}, Conclusion: "∃x R(a,x)"},
	{Assumptions: []string{"∀x ∀y ¬R(x,y)"}, Conclusion: "¬∃x R(x,f(x))"},
	{Assumptions: []string{"(P ∨ Q) ∧ R", "¬Q"}, Conclusion: "R ∧ (R → P)"},
	{Assumptions: []string{"∀x (P(x) → R(a,x))"}, Conclusion: "∀x ((a=x) → ∃y R(x,y))"},
}

// All returns a copy of the bundled exercises
func All() []Exercise {
	out := make([]Exercise, len(bundled))
	copy(out, bundled)
	return out
}

// Get returns the exercise at index
func Get(index int) (Exercise, error) {
	if index < 0 || index >= len(bundled) {
		return Exercise{}, fmt.Errorf("%w: %d", ErrNoSuchExercise, index)
	}
	return bundled[index], nil
}

// RandomIndex picks an exercise index. A nil source uses the global
// generator.
func RandomIndex(r *rand.Rand) int {
	if r == nil {
		return rand.IntN(len(bundled))
	}
	return r.IntN(len(bundled))
}

// Random picks an exercise
func Random(r *rand.Rand) Exercise {
	return bundled[RandomIndex(r)]
}

// Proof returns the starting text: one numbered line per assumption
// followed by the scope bar
func (e Exercise) Proof() string {
	var b strings.Builder
	for i, a := range e.Assumptions {
		fmt.Fprintf(&b, "%d | %s\n", i+1, a)
	}
	b.WriteString("  |----")
	return b.String()
}

// Open adds the exercise to the session as a new selected tab with its
// conclusion as the proof target, and returns the tab index
func (e Exercise) Open(s *session.Session) int {
	index := s.NewTab(e.Proof())
	_ = s.SetProofTarget(index, e.Conclusion)
	return index
}
