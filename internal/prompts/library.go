package prompts

// RouterInstruction tells the classification model how to label a query.
// The model must reply with a JSON object carrying a single "classification"
// key; anything else is treated as malformed and degrades to CLARIFY.
const RouterInstruction = `You are a query router. Analyze the query provided by the user and classify it by returning a JSON object with a single key "classification" whose value is exactly one of the following options:

    - ANSWER: Use this if the query is clear, specific, and can be answered with factual information. Relevant queries must have at least some vague link to the Flare Network blockchain.
    - CLARIFY: Use this if the query is ambiguous, vague, or needs additional context.
    - REJECT: Use this if the query is inappropriate, harmful, or completely out of scope. Reject the query if it is not related at all to the Flare Network or not related to blockchains.

Do not include any additional text or empty lines. The JSON should look like this:

{
    "classification": <chosen_option>
}
`

// RouterPrompt frames the query being classified.
const RouterPrompt = "Classify the following query:\n"

// ResponderInstruction is the system instruction for answer generation.
const ResponderInstruction = `You are an AI assistant specialized in helping users navigate
the Flare blockchain documentation.

When answering, rely on the retrieved documents provided with the query.
- Prioritize security best practices
- Verify user understanding of important steps
- Format technical information (addresses, hashes, etc.) in easily readable ways

You maintain professionalism while allowing your subtle wit to make interactions
more engaging - your goal is to be helpful first, entertaining second.
`

// ResponderPrompt is the fixed instruction appended after the retrieved
// context and the user query.
const ResponderPrompt = `Answer the user query using only the documents listed above. Mention the documents you relied on. If the documents do not contain the answer, say so instead of guessing.`

// Router is the classification prompt with its structured-output contract.
var Router = Prompt{
	Name:        "router",
	Description: "Classify a user query as ANSWER, CLARIFY, or REJECT",
	Template:    RouterInstruction + "\n" + RouterPrompt + "${user_input}",
	RequiredInputs: []string{
		"user_input",
	},
	ResponseSchema: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"classification": map[string]any{
				"type": "string",
				"enum": []string{"ANSWER", "CLARIFY", "REJECT"},
			},
		},
		"required": []string{"classification"},
	},
	ResponseMIMEType: "application/json",
	Category:         "rag",
	Version:          "1.0",
}
