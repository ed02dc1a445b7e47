package resolver

const (
	helpFormat     = "Hi! I'm %s's AI assistant. Ask me about skills, projects, or experience!"
	greetingFormat = "Hello! I'm %s, a passionate full-stack developer. What would you like to know about my background?"

	notConfiguredFormat = "I don't have specific information about '%s', but I'd love to tell you about my technical skills, projects, or experience. What interests you most?"
	failureFormat       = "Thanks for asking about '%s'! While I don't have specific details on that, I'm excited to share about my experience in full-stack development, my projects, or my technical skills. What would you like to know?"

	// LearnedNotice follows stored answers that were generated and never reviewed.
	LearnedNotice = "💡 This answer was AI-generated and may be updated as I learn more!"
	// GeneratedNotice follows freshly generated answers.
	GeneratedNotice = "💡 This answer was AI-generated. I'm always learning and improving my responses!"
)

var greetingPhrases = []string{"hello", "hi", "hey", "how are you"}
