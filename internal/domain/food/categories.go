package food

// Category is one of the nine BMI/TSH bands the classifier predicts.
type Category struct {
	Description string
	Foods       []string
}

const (
	unknownDescription = "Unknown Category"
	noRecommendations  = "No recommendations available"
)

var categories = map[int]Category{
	1: {"Low BMI & Low TSH", []string{"Chicken curry", "Fish ambul thiyal", "Rice", "Coconut sambol", "Gotu kola salad", "Cowpea curry", "Papaya", "Yogurt", "Bananas", "Green gram porridge"}},
	2: {"Low BMI & Normal TSH", []string{"Mutton curry", "Parippu (lentils)", "Jackfruit curry", "Kiri bath", "Mango", "Wood apple juice", "Coconut roti", "Milk rice", "Fresh curd", "Eggs"}},
	3: {"Low BMI & High TSH", []string{"Beef curry", "Red rice", "Pumpkin curry", "Winged bean stir-fry", "Coconut milk", "Kurakkan roti", "Pineapple", "Butter", "Cheese", "Banana porridge"}},
	4: {"Normal BMI & Low TSH", []string{"Fish curry", "String hoppers", "Pol sambol", "Dhal curry", "Papaya", "Fresh coconut", "Gotu kola sambol", "Yogurt", "Green beans stir-fry", "Chicken liver curry"}},
	5: {"Normal BMI & Normal TSH", []string{"Rice and curry", "Boiled vegetables", "Egg hoppers", "Avocado juice", "Herbal porridge", "Grilled fish", "Cowpea salad", "Buffalo curd", "Coconut water", "Pineapple curry"}},
	6: {"Normal BMI & High TSH", []string{"Red rice", "Mushroom curry", "Brinjal moju", "Lentil soup", "Jackfruit stir-fry", "Sprouted mung beans", "Butter", "Fresh milk", "Chicken soup", "Banana smoothie"}},
	7: {"High BMI & Low TSH", []string{"Grilled fish", "Vegetable soup", "Herbal tea", "Steamed vegetables", "Green gram curry", "Gotu kola porridge", "Bitter gourd salad", "Yogurt", "Low-fat cheese", "Guava"}},
	8: {"High BMI & Normal TSH", []string{"Boiled manioc", "Stir-fried vegetables", "Lean chicken curry", "Black tea", "Red rice", "Wood apple smoothie", "Spinach curry", "Fresh coconut water", "Grilled prawns", "Eggplant curry"}},
	9: {"High BMI & High TSH", []string{"Brown rice", "Kidney bean curry", "Mushroom soup", "Vegetable porridge", "Low-fat curd", "Herbal tea", "Bitter gourd stir-fry", "Pumpkin seeds", "Coconut milk stew", "Pineapple curry"}},
}

// Lookup returns the category for id, or the unknown placeholder. The food
// list is a copy.
func Lookup(id int) Category {
	c, ok := categories[id]
	if !ok {
		return Category{Description: unknownDescription, Foods: []string{noRecommendations}}
	}
	return Category{Description: c.Description, Foods: append([]string(nil), c.Foods...)}
}
