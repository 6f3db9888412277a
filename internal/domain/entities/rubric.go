package entities

// Bounds of the five-point evaluation scale
const (
	ScoreMin = 1.0
	ScoreMax = 5.0
)

// Criterion ids
const (
	CriterionStructureClarity      = "structure_clarity"
	CriterionExplanationCompetence = "explanation_competence"
	CriterionPracticalRelevance    = "practical_relevance"
	CriterionInteractivity         = "interactivity"
	CriterionTimeManagement        = "time_management"
	CriterionTargetGroupAdaptation = "target_group_adaptation"
	CriterionCommunicationStyle    = "communication_style"
	CriterionEngagementEnthusiasm  = "engagement_enthusiasm"
	CriterionEmpathyInteraction    = "empathy_interaction"
	CriterionTechnicalChallenges   = "technical_challenges"
)

// Criterion is one fixed pedagogical evaluation dimension
type Criterion struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
}

// Rubric is the ordered criterion catalog sent with every scoring request.
// It is passed explicitly through the pipeline; nothing reads it as a global.
type Rubric []Criterion

// DefaultRubric returns the ten-criterion lecture evaluation catalog.
// Callers get a fresh copy each time.
func DefaultRubric() Rubric {
	return Rubric{
		{
			ID:          CriterionStructureClarity,
			DisplayName: "Structure & Clarity",
			Description: "Logical structure of the session: a clear agenda, a recognizable thread, explicit transitions between topics.",
		},
		{
			ID:          CriterionExplanationCompetence,
			DisplayName: "Explanation Competence",
			Description: "Quality of explanations: understandable terminology, illustrative examples, concepts built up step by step.",
		},
		{
			ID:          CriterionPracticalRelevance,
			DisplayName: "Practical Relevance",
			Description: "Connection of theory to practice: real-world examples, applications, transferable takeaways.",
		},
		{
			ID:          CriterionInteractivity,
			DisplayName: "Interactivity",
			Description: "Activation of the audience: questions into the group, short exercises, invitations to contribute.",
		},
		{
			ID:          CriterionTimeManagement,
			DisplayName: "Time Management",
			Description: "Use of the available time: balanced pacing across topics, no rushing or dragging, breaks where appropriate.",
		},
		{
			ID:          CriterionTargetGroupAdaptation,
			DisplayName: "Target Group Adaptation",
			Description: "Fit of content, depth and language to the audience's prior knowledge and needs.",
		},
		{
			ID:          CriterionCommunicationStyle,
			DisplayName: "Communication Style",
			Description: "Verbal delivery: clear articulation, varied intonation, appropriate speaking pace, confident wording.",
		},
		{
			ID:          CriterionEngagementEnthusiasm,
			DisplayName: "Engagement & Enthusiasm",
			Description: "Visible enthusiasm for the subject and energy that carries the audience through the session.",
		},
		{
			ID:          CriterionEmpathyInteraction,
			DisplayName: "Empathy & Student Interaction",
			Description: "Handling of questions and contributions: respectful, patient, responsive to signs of confusion.",
		},
		{
			ID:          CriterionTechnicalChallenges,
			DisplayName: "Technical Challenges",
			Description: "Handling of technical issues during the session: composure, workarounds, minimal disruption.",
		},
	}
}

// ByID looks up a criterion in the catalog
func (r Rubric) ByID(id string) (Criterion, bool) {
	for _, c := range r {
		if c.ID == id {
			return c, true
		}
	}
	return Criterion{}, false
}

// IDs returns the criterion ids in catalog order
func (r Rubric) IDs() []string {
	ids := make([]string, len(r))
	for i, c := range r {
		ids[i] = c.ID
	}
	return ids
}
