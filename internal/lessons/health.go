// Package lessons holds the worked examples the analysis walkthrough checks
// its arithmetic against.
package lessons

import (
	"fmt"
	"math"

	"github.com/Veraticus/aneurisk/internal/common"
)

// Messages returned to the learner instead of a raised fault.
const (
	MsgDosageInput    = "Error: Weight and age must be positive numbers."
	MsgDivisionByZero = "Error: division by zero is not allowed"
)

// Healthy BMI band, inclusive at both ends.
const (
	HealthyBMIMin = 18.5
	HealthyBMIMax = 24.9
)

// Dosage constants.
const (
	DosePerKg       = 2.0
	SeniorAge       = 65
	SeniorDoseRatio = 0.75
)

// CalculateBMI returns weight (kg) divided by the square of height (m).
func CalculateBMI(weight, height float64) (float64, error) {
	if height <= 0 || math.IsNaN(height) {
		return 0, fmt.Errorf("%w: height must be positive, got %v", common.ErrValueOutOfRange, height)
	}
	return weight / (height * height), nil
}

// IsHealthyBMI reports whether bmi lies in [18.5, 24.9].
func IsHealthyBMI(bmi float64) bool {
	return bmi >= HealthyBMIMin && bmi <= HealthyBMIMax
}

// CalculateDosage returns a dose in mg: 2 mg per kg of body weight, reduced
// to three quarters from age 65.
func CalculateDosage(weight, age float64) (float64, error) {
	if !(weight > 0) || !(age > 0) {
		return 0, common.NewMessage(MsgDosageInput, common.ErrValueOutOfRange)
	}
	dose := weight * DosePerKg
	if age >= SeniorAge {
		dose *= SeniorDoseRatio
	}
	return dose, nil
}

// DivideNumbers returns a / b. Dividing by zero returns an error carrying the
// learner-facing message rather than Inf or a panic.
func DivideNumbers(a, b float64) (float64, error) {
	if b == 0 {
		return 0, common.NewMessage(MsgDivisionByZero, common.ErrDivisionByZero)
	}
	return a / b, nil
}
