package service

// 机器人话术（沿用最初版本的口吻）
const (
	msgStartConfirmed = "Okay. Asking feedback from %s to %s."
	msgWrongFormat    = "Wrong usage of command."
	msgStartUsage     = "Try `start @giver @receiver`!"
	msgNotACommandAdmin    = "Sorry, I can't recognize that command. " + msgStartUsage
	msgNotACommandNotAdmin = "Hi! There is no feedback session currently, we will let you know when it is."

	msgAskForFeedback = "Hi! It's feedback time! Please write your feedback to `%s`! " +
		"Be specific, extended and give your feedback on behavior. " +
		"And don't forget to give more positive feedback than negative!"
	msgFeedbackConfirmed = "You've given `%s` the following feedback: %s. Thank you!"

	msgNoQuestions = "There are no questions defined yet. Try `questions define` first!"

	msgWizardAddAnother   = "Do you want to add another question? (yes/no)"
	msgWizardTypeQuestion = "Okay, type the new question!"
	msgWizardYesOrNo      = "Please answer `yes` or `no`."
	msgWizardDone         = "Okay, questions saved."
	msgWizardRemovePrompt = "Which question should I remove? Type its number or `cancel`."
	msgWizardRemoveRange  = "Please give a number between 1 and %d, or `cancel`."
	msgWizardRemoveDone   = "Okay, nothing removed."
	msgQuestionListEmpty  = "No questions defined yet."

	msgNoFeedbackYet = "No feedback for you yet."
	msgNewFeedback   = "You've got new feedback! Send `list` to read it."
	msgNewFeedbackDisclosed = "You've got new feedback: %s"
)
