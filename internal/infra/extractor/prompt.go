package extractor

import (
	"fmt"
	"strings"
	"time"
)

// buildPrompt constructs the extraction prompt. The contract with the model:
// respond with ONLY a JSON array, one object per opportunity, using the
// exact field set the parser expects. Deadlines must be ISO dates and never
// in the past; the category must come from the known list.
func buildPrompt(content string, maxResults int, categories []string, now time.Time) string {
	var b strings.Builder

	b.WriteString("You are an assistant that extracts funding and career opportunities ")
	b.WriteString("(scholarships, internships, fellowships, grants) from web page content.\n\n")

	fmt.Fprintf(&b, "Extract up to %d opportunities from the page content below.\n", maxResults)
	b.WriteString("Respond with ONLY a JSON array. No prose, no markdown fences, no explanations.\n\n")

	b.WriteString("Each array element must be an object with exactly these fields:\n")
	b.WriteString(`- "title": string, the opportunity's name` + "\n")
	b.WriteString(`- "description": string, a concise summary` + "\n")
	b.WriteString(`- "type": one of "scholarship", "internship", "fellowship", "grant"` + "\n")
	fmt.Fprintf(&b, "- \"deadline\": string in YYYY-MM-DD format. Today is %s. "+
		"If the deadline is absent or already past, use %s instead. Never output a past date.\n",
		now.Format("2006-01-02"), now.AddDate(1, 0, 0).Format("2006-01-02"))
	b.WriteString(`- "link": string, the application or detail URL` + "\n")
	b.WriteString(`- "location": string; use "Not Specified" when the page gives none` + "\n")
	b.WriteString(`- "amount": string or null, the award or compensation if stated` + "\n")
	fmt.Fprintf(&b, "- \"category\": one of: %s. Use %q when none fits.\n\n",
		strings.Join(categories, ", "), GeneralCategory)

	b.WriteString("If the page contains no opportunities, respond with [].\n\n")
	b.WriteString("Page content:\n")
	b.WriteString(content)

	return b.String()
}
