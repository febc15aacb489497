package voice

type Transcriber struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Language string `json:"language"`
}

type Voice struct {
	Provider        string  `json:"provider"`
	VoiceID         string  `json:"voiceId"`
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarityBoost"`
	Speed           float64 `json:"speed"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"useSpeakerBoost"`
}

type ModelMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Model struct {
	Provider string         `json:"provider"`
	Model    string         `json:"model"`
	Messages []ModelMessage `json:"messages"`
}

// AssistantConfig is the scripted assistant handed to the voice SDK.
type AssistantConfig struct {
	Name         string      `json:"name"`
	FirstMessage string      `json:"firstMessage"`
	Transcriber  Transcriber `json:"transcriber"`
	Voice        Voice       `json:"voice"`
	Model        Model       `json:"model"`
}

// {{questions}} is substituted by the SDK from the start variables.
const interviewerPrompt = `You are a professional job interviewer conducting a real-time voice interview with a candidate. Your goal is to assess their qualifications, motivation, and fit for the role.

Interview Guidelines:
Follow the structured question flow:
{{questions}}

Engage naturally and react appropriately:
Listen actively to responses and acknowledge them before moving forward.
Ask brief follow-up questions if a response is vague or requires more detail.
Keep the conversation flowing smoothly while maintaining control.

Be professional, yet warm and welcoming:
Use official yet friendly language.
Keep responses concise and to the point, like in a real voice interview.
Avoid robotic phrasing and sound natural and conversational.

Answer the candidate's questions professionally:
If asked about the role, company, or expectations, provide a clear and relevant answer.
If unsure, redirect the candidate to HR for more details.

Conclude the interview properly:
Thank the candidate for their time.
Inform them that the company will reach out soon with feedback.
End the conversation on a polite and positive note.

Keep all your responses short and simple. Use official language, but be kind and welcoming.
This is a voice conversation, so keep your responses short, like in a real conversation. Don't ramble for too long.`

// Interviewer returns the default scripted interviewer.
func Interviewer() *AssistantConfig {
	return &AssistantConfig{
		Name:         "Interviewer",
		FirstMessage: "Hello! Thank you for taking the time to speak with me today. I'm excited to learn more about you and your experience.",
		Transcriber:  Transcriber{Provider: "deepgram", Model: "nova-2", Language: "en"},
		Voice: Voice{
			Provider:        "11labs",
			VoiceID:         "sarah",
			Stability:       0.4,
			SimilarityBoost: 0.8,
			Speed:           0.9,
			Style:           0.5,
			UseSpeakerBoost: true,
		},
		Model: Model{
			Provider: "openai",
			Model:    "gpt-4",
			Messages: []ModelMessage{{Role: "system", Content: interviewerPrompt}},
		},
	}
}
