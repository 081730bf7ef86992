package reply

var greetings = []string{
	"Hello! I'm your AI Property Assistant. I'm here to help you discover the perfect luxury property that matches your needs.",
	"Hi there! Welcome to our luxury property showcase. I can help you explore our exclusive collection of premium properties.",
	"Good day! I'm excited to help you find your dream property. What kind of luxury home are you looking for today?",
}

const greetingMenu = "I can assist you with:\n" +
	"• Detailed property information\n" +
	"• Pricing and investment analysis\n" +
	"• Location insights and neighborhood details\n" +
	"• Scheduling personal property viewings\n\n" +
	"What would you like to explore first?"

var generalReplies = []string{
	"I understand you're interested in our luxury properties. Let me help you find exactly what you're looking for.",
	"That's a great question! Let me provide you with detailed information about our premium property collection.",
	"I'm here to assist you with all your luxury property needs. What specific aspect would you like to explore?",
}

const generalMenu = "I can help you with:\n" +
	"• **Property Search** - Find homes by location, price, or features\n" +
	"• **Detailed Information** - Get comprehensive property details\n" +
	"• **Investment Analysis** - Understand market value and potential\n" +
	"• **Personal Viewings** - Schedule exclusive property tours\n\n" +
	"What interests you most about our luxury property collection?"

const (
	propertyDetailTmpl = "**%s** - Exceptional Luxury Property\n\n" +
		"**Property Details:**\n" +
		"• **Location:** %s\n" +
		"• **Address:** %s\n" +
		"• **Price:** %s\n" +
		"• **Bedrooms:** %d\n" +
		"• **Bathrooms:** %s\n" +
		"• **Size:** %s\n" +
		"• **Status:** %s\n\n" +
		"**Description:**\n%s\n\n" +
		"**Property Specialist:** %s\n" +
		"**Direct Contact:** %s\n\n" +
		"Would you like to schedule a private viewing to experience this luxury home firsthand?"

	singleMatchTmpl   = "Perfect! I found exactly what you're looking for:\n\n%s"
	multipleMatchTmpl = "Great! I found %d luxury properties that match your criteria:\n\n%s\n\n" +
		"Which property would you like to learn more about? I can provide detailed information and arrange viewings for any of these properties."
	noMatchTmpl = "I couldn't find properties matching your exact criteria, but here is what we currently offer:\n\n%s\n\n" +
		"Would you like to adjust your search criteria or explore these recommendations?"
	unknownPropertyTmpl = "I couldn't find a property matching \"%s\". Let me show you our available luxury properties:\n\n%s"

	priceAnalysisTmpl = "Based on your budget inquiry, here's what I found:\n\n" +
		"**Price Analysis:**\n" +
		"• Average price: %s\n" +
		"• Properties available: %d\n\n" +
		"%s\n\n" +
		"Would you like detailed information about any of these properties?"
	priceAlternativesTmpl = "I don't have exact matches for your budget, but here are some nearby options:\n\n%s"
	propertyPriceTmpl     = "The **%s** is listed at %s.\n\nWould you like to know more about it or arrange a viewing?"

	locationOverviewTmpl = "**%s:**\n" +
		"• %d luxury properties available\n" +
		"• Average price: %s\n" +
		"• Featured: %s"
	locationSpecificTmpl = "**Luxury Properties in %s:**\n\n" +
		"• **%d exclusive properties** available\n" +
		"• **Average price:** %s\n" +
		"• **Price range:** %s - %s\n\n" +
		"**Available Properties:**\n%s\n\n" +
		"Which property would you like to explore in detail?"
	locationMissingTmpl = "I don't currently have properties in %s, but let me show you our premium locations:\n\n%s"

	viewingIntroTmpl = "Excellent choice! The **%s** is truly spectacular. To arrange your private viewing, I'll need to collect some details:\n\n" +
		"**Property:** %s\n" +
		"**Location:** %s\n" +
		"**Price:** %s\n\n" +
		"Could you please provide %s?\n\n" +
		"I'll coordinate directly with our property specialist to ensure everything is perfectly arranged for your visit."
	viewingNeedsProperty = "I'd be delighted to help you schedule a property viewing! First, could you let me know which property interests you?\n\n%s"

	stillNeedTmpl = "To schedule your viewing for **%s**, I still need %s.\n\n" +
		"Please provide the missing information so I can arrange everything for you."
	switchedTmpl = "No problem, let's arrange a viewing of the **%s** instead."
	changeTmpl   = "No problem. Which detail would you like to change: your name, contact, date or time? " +
		"You can also say \"cancel\" to stop this booking."

	summaryTmpl = "Perfect! I have all the details for your viewing:\n\n" +
		"**Viewing Summary:**\n" +
		"• **Property:** %s\n" +
		"• **Name:** %s\n" +
		"• **Contact:** %s\n" +
		"%s" +
		"• **Date:** %s\n" +
		"• **Time:** %s\n\n" +
		"Would you like me to confirm this booking? Please reply with \"Yes\" to confirm, tell me what to change, or say \"cancel\" to stop."

	confirmedTmpl = "Excellent! Your viewing has been confirmed.\n\n" +
		"**Booking Confirmed:**\n" +
		"• **Property:** %s\n" +
		"• **Date & Time:** %s at %s\n" +
		"• **Contact:** %s\n\n" +
		"Our property specialist will contact you shortly to finalize the arrangements. Thank you for choosing our services!"

	cancelledReply = "No problem! Your viewing request has been cancelled. Feel free to ask me about other properties or schedule a different viewing whenever you're ready."

	// Fallback is returned when a turn could not be processed
	Fallback = "I'm sorry, something went wrong on my side. Could you please rephrase that?"
)
