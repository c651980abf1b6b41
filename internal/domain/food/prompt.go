package food

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// Conditions summarises the patient for the advice prompt.
type Conditions struct {
	BMIClass      string
	Diabetes      bool
	Cholesterol   bool
	BloodPressure bool
	Pregnancy     bool
	TSH           float64
}

func yesNo(b bool) string {
	return lo.Ternary(b, "Yes", "No")
}

// BuildPrompt asks the generator for per-food clinical advice.
func BuildPrompt(foods []string, c Conditions) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a clinical nutrition expert. Provide detailed advice on how to incorporate the following foods into a diet: %s.\n", strings.Join(foods, ", "))
	b.WriteString("Consider the following medical conditions:\n")
	fmt.Fprintf(&b, "- BMI: %s\n", lo.Ternary(c.BMIClass == "", "Unknown", c.BMIClass))
	fmt.Fprintf(&b, "- Diabetes: %s\n", yesNo(c.Diabetes))
	fmt.Fprintf(&b, "- Cholesterol: %s\n", yesNo(c.Cholesterol))
	fmt.Fprintf(&b, "- Blood Pressure: %s\n", yesNo(c.BloodPressure))
	fmt.Fprintf(&b, "- Pregnancy: %s\n", yesNo(c.Pregnancy))
	fmt.Fprintf(&b, "- TSH Level: %s mIU/L\n", strconv.FormatFloat(c.TSH, 'f', -1, 64))
	b.WriteString("For each food, provide the following:\n")
	b.WriteString("--Give Clinical Advice for the patient to follow when consuming the food item with TSH level of the patient and BMI.\n")
	b.WriteString("--Get the medical conditions of a patient to give overall advice to this part.\n")
	b.WriteString("--Provide a detailed explanation of the benefits of the food item for the patient.\n")
	return b.String()
}
