package gemini

// assessmentPromptTemplate instructs the model to return a single JSON
// object. Score ranges mirror the dimension ceilings in the analysis
// package so the response can be stored without rescaling.
const assessmentPromptTemplate = `You are an expert {{.Language}} language teacher assessing a learner's conversation.

Conversation transcript:
"{{.Transcript}}"

Context: {{.Context}}
{{if .Duration}}Audio duration: {{.Duration}} seconds{{end}}

Evaluate the learner's language proficiency and respond with ONLY a JSON object in exactly this format:
{
    "overall_score": <number between 0-85, the sum of the four dimension scores>,
    "grammar_score": <number between 0-25>,
    "vocabulary_score": <number between 0-20>,
    "fluency_score": <number between 0-20>,
    "comprehension_score": <number between 0-20>,
    "proficiency_level": "<A1|A2|B1|B2|C1|C2>",
    "strengths": ["<strength1>", "<strength2>"],
    "improvements": ["<improvement1>", "<improvement2>"],
    "recommendations": ["<recommendation1>", "<recommendation2>"],
    "detailed_feedback": {
        "grammar": "<detailed grammar feedback>",
        "vocabulary": "<detailed vocabulary feedback>",
        "fluency": "<detailed fluency feedback>",
        "comprehension": "<detailed comprehension feedback>"
    }
}

Base the scores on grammatical accuracy, vocabulary range, fluency of expression, and coherence of ideas. Short or fragmentary responses should score low in every dimension.`
