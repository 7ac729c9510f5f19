package whatsapp

import (
	"fmt"
	"time"
)

const (
	MsgWelcome = `🎉 Welcome to InstaCatalog!

I help creative entrepreneurs turn their Instagram profiles into a catalog website with WhatsApp ordering.

📸 Send me your Instagram profile link or @username to get started!`

	MsgAskForURL = `📸 Please send me your Instagram profile link

For example:
• https://instagram.com/yourbusiness
• @yourbusiness

I'll turn your posts into a product catalog for you! ✨`

	MsgHelp = `🤔 I didn't understand that.

Send me:
• "hi" to begin
• Your Instagram profile link or @username to create a catalog
• "status" to check on your last request

How can I help you today?`

	MsgInvalidURL = `❌ Invalid Instagram profile

Please send a valid Instagram profile link like:
• https://instagram.com/yourbusiness
• @yourbusiness

Try again! 📸`

	MsgQueueFull = `⏳ We are busy building other catalogs right now.

Please send your link again in a few minutes! 🙏`

	MsgNoRequest = `📭 You haven't asked for a catalog yet.

Send me your Instagram profile link to create one!`
)

func MsgProcessing(username string) string {
	return fmt.Sprintf(`🔄 Processing your Instagram profile...

📍 Profile: @%s

I'm analyzing your posts and extracting product information. This may take a few moments.

I'll send you the catalog link once it's ready! ⏰`, username)
}

func MsgAlreadyProcessing(username, status string) string {
	return fmt.Sprintf(`⏳ Your catalog for @%s is already on its way (%s).

I'll message you as soon as it's ready!`, username, status)
}

func MsgCompleted(businessName string, productCount int, link string) string {
	return fmt.Sprintf(`✅ Your product catalog is ready!

🏪 Business: %s
📦 Products: %d
🔗 %s

Share this link with your customers. Every product has an "Order on WhatsApp" button! 🚀`, businessName, productCount, link)
}

func MsgFailed(username string) string {
	return fmt.Sprintf(`❌ Could not build a catalog for @%s

This might be because:
• The profile is private
• The username is incorrect
• The profile doesn't exist

Please check the link and try again! 🔄`, username)
}

func MsgStatus(username, status, message string, updated time.Time) string {
	text := fmt.Sprintf("📊 @%s: %s", username, status)
	if message != "" {
		text += "\n" + message
	}
	return text + fmt.Sprintf("\n🕒 %s UTC", updated.UTC().Format("2 Jan 15:04"))
}
