package research

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are an expert event venue researcher. A company is hosting an event and needs venue recommendations. Your job is to find specific, real venues that match their criteria and return detailed, actionable information.

IMPORTANT RULES:
- Only recommend REAL venues that you are confident exist. Do not invent venues.
- Include as much contact info as possible (phone, email, website, contact name).
- Be specific about pricing. Ranges are fine, but "varies" is not helpful.
- Note if a venue has a private room, event space, or buyout option.
- If you are unsure about a detail, say so and mark confidence as "low".
- Prioritize venues that are KNOWN for hosting the type of event requested.
- Consider the audience. A CMO dinner is different from an engineering team offsite.`

var eventGuidance = map[string]string{
	EventDinner: `EVENT TYPE: Hosted Dinner

RESEARCH PRIORITIES (in order):
1. Private dining rooms or semi-private spaces
2. Cuisine quality and reputation
3. Ambiance that matches the stated vibe
4. Appropriate capacity for the guest count
5. Prix fixe or set menu options
6. Wine and beverage program quality

WHAT TO LOOK FOR: restaurants with dedicated private dining rooms,
upscale restaurants that do full or partial buyouts, chef's table
experiences, members-only clubs with dining, hotel restaurants with
private event spaces.

AVOID: sterile event spaces, large banquet halls, chain restaurants.`,

	EventHappyHour: `EVENT TYPE: Happy Hour / Cocktail Reception

RESEARCH PRIORITIES (in order):
1. Bar quality and cocktail program
2. Standing room and mingling-friendly layout
3. Vibe and energy
4. Passed apps or bar snacks availability
5. Location convenience
6. Outdoor or rooftop options

WHAT TO LOOK FOR: cocktail bars with semi-private or private areas,
rooftop bars with buyout options, speakeasies, hotel bars with reserved
sections, breweries and taprooms with event spaces, wine bars with
standing room.

AVOID: sit-down-only restaurants, dive bars unless that is the stated
vibe, venues too loud to network in.`,

	EventWorkshop: `EVENT TYPE: Workshop / Working Session

RESEARCH PRIORITIES (in order):
1. AV setup: screens, projectors, whiteboards, reliable WiFi
2. Flexible seating arrangements
3. Natural light and comfortable environment
4. Breakout room availability
5. Catering options
6. Location convenience

WHAT TO LOOK FOR: boutique meeting spaces, hotel meeting rooms,
creative co-working spaces with event rooms, loft spaces with AV
capabilities, gallery spaces that can be configured for working
sessions.

AVOID: traditional conference centers, restaurants, venues without
reliable WiFi, spaces with fixed seating.`,
}

const answerFormat = `After researching, return your results as a JSON object with this exact structure:
{
  "venues": [
    {
      "name": "Venue Name",
      "address": "Full street address",
      "neighborhood": "Neighborhood name",
      "city": "City",
      "venue_type": "e.g. restaurant - private dining",
      "website": "https://...",
      "phone": "phone number",
      "email": "events@ or contact email",
      "contact_name": "Events manager name if found",
      "price_range": "e.g. $$$, $150-200pp",
      "estimated_cost": "e.g. $4,500 for 20 guests",
      "capacity_min": 10,
      "capacity_max": 40,
      "private_space": true,
      "av_available": false,
      "outdoor_space": true,
      "cuisine_or_style": "e.g. Modern American, Italian",
      "best_for": ["dinner", "happy_hour"],
      "highlights": "1-2 sentence pitch for why this venue fits the brief",
      "source_url": "URL where you found/verified info",
      "confidence": "high"
    }
  ],
  "research_notes": "Brief summary of your research process and any caveats"
}

Return ONLY the JSON object, no other text.`

// buildPrompt composes the user prompt for a research run. Names of
// venues already on file are appended so the agent looks for new ones.
func buildPrompt(q Query, existing []string) string {
	var sb strings.Builder

	sb.WriteString(eventGuidance[q.EventType])
	sb.WriteString("\n\n--- EVENT BRIEF ---\n")
	fmt.Fprintf(&sb, "Event Type: %s\n", q.EventType)
	fmt.Fprintf(&sb, "City: %s\n", q.City)

	if q.Neighborhood != "" {
		fmt.Fprintf(&sb, "Neighborhood/Area: %s\n", q.Neighborhood)
	}
	if q.Budget != "" {
		fmt.Fprintf(&sb, "Budget: %s\n", q.Budget)
	}
	if q.GuestCount > 0 {
		fmt.Fprintf(&sb, "Guest Count: %d\n", q.GuestCount)
	}
	if q.Vibe != "" {
		fmt.Fprintf(&sb, "Vibe/Atmosphere: %s\n", q.Vibe)
	}
	if q.Audience != "" {
		fmt.Fprintf(&sb, "Audience: %s\n", q.Audience)
	}
	if len(q.Requirements) > 0 {
		fmt.Fprintf(&sb, "Must-Haves: %s\n", strings.Join(q.Requirements, ", "))
	}
	if len(q.Keywords) > 0 {
		fmt.Fprintf(&sb, "Keywords/Preferences: %s\n", strings.Join(q.Keywords, ", "))
	}
	if q.DateRange != "" {
		fmt.Fprintf(&sb, "Target Date: %s\n", q.DateRange)
	}
	if q.Notes != "" {
		fmt.Fprintf(&sb, "Additional Notes: %s\n", q.Notes)
	}

	sb.WriteString("\n--- INSTRUCTIONS ---\n")
	sb.WriteString("Research and recommend up to 8 venues that match this brief. ")
	sb.WriteString("For each venue, use web search to find and verify: the venue's website, phone number, email, private event contact, pricing details, capacity, and any relevant details.\n\n")
	sb.WriteString(answerFormat)

	if len(existing) > 0 {
		sb.WriteString("\n\nNOTE: We already have these venues in our registry for this area. ")
		sb.WriteString("Do NOT include them in your results. Find NEW venues instead:\n")
		sb.WriteString(strings.Join(existing, ", "))
	}

	return sb.String()
}
