package itinerary

import (
	"fmt"
	"strings"
)

const maxContextChars = 4000

const systemPrompt = `
You are a professional travel planner AI.

CRITICAL RULES (MANDATORY):
1. The FINAL TOTAL budget MUST NOT exceed the user budget.
2. ALL individual costs (stay + food + transport + activities + misc) MUST sum EXACTLY to the given budget.
3. If budget is low, you MUST reduce activity and transport costs.
4. You MUST internally adjust all values to stay within budget.
5. NEVER exceed the budget even slightly.

FORMAT RULES:
- Use clean MARKDOWN only
- Use proper headings (##, ###)
- Use bullet points (-)
- Use a proper budget table
- NO long paragraphs
`

func buildItineraryPrompt(destination string, days int, budget float64, interests []string, foodPref, ragContext string) string {
	interestsText := "general sightseeing"
	if len(interests) > 0 {
		interestsText = strings.Join(interests, ", ")
	}
	foodText := "no specific preference"
	if foodPref != "" {
		foodText = foodPref
	}
	if len(ragContext) > maxContextChars {
		ragContext = ragContext[:maxContextChars]
	}

	return fmt.Sprintf(`
Create a beautiful, easy-to-read %d-day travel itinerary.

Trip Details:
- Destination: %s
- Budget: ₹%.0f
- Interests: %s
- Food preference: %s

You MUST follow this exact structure:

## Destination Overview

- **Best time to visit:**
- **Typical weather:**
- **Travel tips:**

---

## Daily Itinerary

### Day 1
**Morning**
- ...

**Afternoon**
- ...

**Evening**
- ...

**Estimated Cost:** ₹...

(Repeat same structure until Day %d)

---

## Food & Restaurants
- **Breakfast:** ...
- **Lunch:** ...
- **Dinner:** ...

---

## Local Transport
- **Modes available:** ...
- **Average daily cost:** ₹...

---

## Safety & Local Rules
- **Safety tips:**
- **Local rules:**

---

## Final Budget Summary

You MUST ensure:

Stay + Food + Transport + Activities + Misc = ₹%.0f
TOTAL MUST BE EXACTLY ₹%.0f

Create a clean markdown table with these rows:
- Stay
- Food
- Transport
- Activities
- Misc
- TOTAL

---

Use the following verified destination knowledge while generating:

%s

Make it visually clean, well-spaced, and UI-friendly.
`, days, destination, budget, interestsText, foodText, days, budget, budget, ragContext)
}

func buildBudgetCorrectionPrompt(itinerary string, budget, actualSum float64) string {
	return fmt.Sprintf(`
The itinerary below has a budget table whose rows sum to ₹%.2f instead of the required ₹%.2f.

Rewrite ONLY the Final Budget Summary table so that
Stay + Food + Transport + Activities + Misc = ₹%.0f exactly,
then return the FULL itinerary with the corrected table. Change nothing else.

%s
`, actualSum, budget, budget, itinerary)
}
