package settings

import "golang.org/x/text/language"

// The process-wide option catalog. Descriptors are immutable; all per-guild
// state lives in the Settings maps they operate on.
var (
	Language               = NewLanguage("language", language.English, language.English, language.Russian)
	WelcomeMessage         = NewString("welcome-message", "default")
	ReceiveStartupMessages = NewBool("receive-startup-messages", false)
	PublicFeedbackChannel  = NewChannel("public-feedback-channel", 0)
	PrivateFeedbackChannel = NewChannel("private-feedback-channel", 0)
	EventNotificationRole  = NewRole("event-notification-role", 0)
	ReturnRolesOnRejoin    = NewBool("return-roles-on-rejoin", false)
	DefaultMuteDuration    = NewDuration("default-mute-duration", 0)
)

// DefaultRegistry returns the registry holding every option the bot knows.
func DefaultRegistry() *Registry {
	return NewRegistry(
		Language,
		WelcomeMessage,
		ReceiveStartupMessages,
		PublicFeedbackChannel,
		PrivateFeedbackChannel,
		EventNotificationRole,
		ReturnRolesOnRejoin,
		DefaultMuteDuration,
	)
}
