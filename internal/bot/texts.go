package bot

const (
	btnTests    = "📋 Tests"
	btnAnalysis = "🤖 AI analysis"
	btnHelp     = "ℹ️ Help"

	msgWelcome = "👋 Welcome to Emotipal, your psychometric testing companion.\n\n" +
		"🧠 Take established personality tests (MBTI, Big Five, ...) and get an " +
		"AI-generated report about your psychological profile once you are done."

	msgHelp = "How it works:\n" +
		"1. Open the tests list and pick a test.\n" +
		"2. Answer every question. You can move back and forth; re-answering replaces your previous choice.\n" +
		"3. When you have finished your tests, press '🤖 AI analysis' to receive your report."

	msgTestsHeader = "📋 Available tests.\nTests marked with ✅ are already completed."

	msgTestCompleted = "🎉 Test completed!\n\n" +
		"You can review your answers from the tests list, take another test, " +
		"or request the AI analysis of everything you answered so far."

	msgAnalyzing = "⏳ Analyzing your psychometric data... this can take up to a minute."

	msgNotRegistered   = "Please press /start first so I can register you."
	msgNoAnswers       = "You have no recorded answers yet. Complete a test first."
	msgNoAnalysis      = "AI analysis is not configured on this bot."
	msgInternalError   = "😔 Something went wrong. Please try again."
	msgUnknownInput    = "❓ I did not understand that. Please use the menu below."
	msgBlocked         = "⛔️ Your access to this bot has been restricted."
	msgAdminOnly       = "🚫 This command is for administrators only."
	msgAnalysisFailed  = "😔 The analysis service is unavailable right now. Please try again later."
	msgQuestionMissing = "That question does not exist."
)
