package classifier

// CorrelatedDomains is the static adjacency of traits considered
// behaviorally linked. Loaded once, never mutated; the narrative generator
// uses it to group sentences about related traits together.
var CorrelatedDomains = map[string][]string{
	"Ability to work with others": {"Openness to individuality"},
	"Emotional Composure":         {"Insightfulness", "Patience", "Emotional Management"},
	"Insightfulness":              {"Emotional Composure", "Patience", "Passive aggression", "Emotional Management"},
	"Emotional Management":        {"Emotional Composure", "Patience", "Passive aggression", "Insightfulness"},
	"Passive aggression":          {"Insightfulness", "Patience", "Emotional Composure", "Emotional Management"},
	"Problem solving":             {"Openness to new experiences"},
	"Patience":                    {"Insightfulness", "Emotional Composure", "Emotional Management"},
	"Dutifulness":                 {"Moral values", "Moral obligation"},
	"Moral Obligation":            {"Moral values", "Fairness", "Dutifulness"},
	"Moral values":                {"Moral obligation", "Fairness", "Dutifulness"},
	"Openness to limitations":     {"Openness to growth"},
	"Openness to growth":          {"Openness to limitations", "Openness to new experiences", "Openness to individuality"},
	"Openness to individuality":   {"Teamwork"},
	"Openness to new experiences": {"Problem solving", "Openness to individuality", "Openness to growth"},
}

// ItemCatalog is the fixed questionnaire, in administration order. "(R)"
// marks reverse-scored items. Response rows reference items by their
// 1-based position in this catalog.
var ItemCatalog = []string{
	"Preference for individual vs group projects (R)",
	"Acceptance to feedback.",
	"Anger and frustration",
	"Completing tasks on time",
	"Forgetting to return others' belongings (moral values are measured) (R)",
	"Sabotaging if working against will. (R)",
	"Feeling uncomfortable if competency is challenged. (R)",
	"Preference to work in groups.",
	"Taking impulsive decisions",
	"Altering information (R)",
	"Unable to take criticism. (R)",
	"Enjoying helping others.",
	"Unable to wait in lines. (R)",
	"Working right away on task.",
	"Breaking traffic signals. (R)",
	"Making sarcastic remarks. (R)",
	"Giving justifications for mistakes. (R)",
	"Overcoming situations",
	"Feeling responsible towards institute.",
	"Willing to do anything. (R)",
	"Open to different temperaments",
	"Taking assistance from others",
	"Comparing others' achievements with self-limitations (R)",
	"Leaving a task pending (R)",
	"Correcting people when they are wrong irrespective of their age",
	"Improving oneself",
	"Ask for help",
	"not Understand others' emotions. (R)",
	"Take shortcuts. (R)",
	"Not expressing oneself. (R)",
	"Speaking up if someone is acting against the norms. (R)",
	"Adapt to change",
	"not Understand own feelings. (R)",
	"Overlook rules. (R)",
	"Aggressive. (R)",
	"Changing ways of work.",
	"Doing tasks carefully.",
	"Low motivation to work if mistakes are made. (R)",
	"Willingness to alter information. (R)",
	"Expressing anger passively. (R)",
	"Moving on to a task without completing current one (R)",
	"Open to criticism.",
	"Stubborn. (R)",
	"Change oneself with time.",
	"Waiting impacts mood. (R)",
	"Thinking of new solutions",
	"Traffic annoys me (R)",
	"Easy to handle unforeseen situations",
}

// ItemText resolves a 1-based catalog row to its item text, empty when out
// of range.
func ItemText(row int) string {
	if row < 1 || row > len(ItemCatalog) {
		return ""
	}
	return ItemCatalog[row-1]
}
