package conversation

// User-facing texts. Everything the bot says lives here so flows stay
// free of literals.
const (
	msgWelcome = "👋 Welcome to IT Recruiter Bot!\n\n" +
		"I can help you find a job or hire an IT specialist.\n\n" +
		"Please choose your role:"
	msgProfileCreated = "✅ Your profile has been created!\n\nLet's fill it in. What is your full name?"
	msgProfileExists  = "💡 Your profile already exists.\n\nYou can edit it with /profile."

	msgEnterName     = "What is your full name?"
	msgEnterRole     = "What role are you looking for? (e.g. Backend Engineer)"
	msgEnterLocation = "Where are you located? (city)"

	msgAskExperience  = "💼 Would you like to add work experience?"
	msgEnterCompany   = "Company name:"
	msgEnterPosition  = "Your position:"
	msgEnterStartDate = "Start date (YYYY-MM-DD):"
	msgEnterEndDate   = "End date (YYYY-MM-DD), or \"present\" if you still work there:"
	msgEnterResp      = "Briefly describe your responsibilities, or /skip:"
	msgExperienceAdded = "✅ Experience at %s added. Add another?"

	msgEnterSkillName = "🛠 Name a skill (e.g. Go, PostgreSQL, English):"
	msgEnterSkillKind = "What kind of skill is it?"
	msgEnterSkillLvl  = "Rate your proficiency from 1 to 5:"
	msgSkillAdded     = "✅ Skill %q added. Add another?"

	msgAskProject    = "🚀 Would you like to add a project?"
	msgEnterTitle    = "Project title:"
	msgEnterDesc     = "Short project description, or /skip:"
	msgEnterLinks    = "Project links (label:url, comma-separated) or a single URL, or /skip:"
	msgProjectAdded  = "✅ Project %q added. Add another?"

	msgSelectModes   = "💻 Select your preferred work modes, then press Done:"
	msgModesChosen   = "Work modes selected: %s ✅"
	msgModesRequired = "Select at least one work mode."

	msgEnterContacts = "📇 Share your contacts (email:..., phone:..., telegram:...), or /skip:"
	msgSelectVisible = "Who can see your contacts?"
	msgVisibleChosen = "✅ Contacts visibility: %s"

	msgUploadResume    = "📄 Upload your resume (PDF or DOCX, up to 10 MB), or /skip:"
	msgUploadAvatar    = "🖼 Upload a profile photo, or /skip:"
	msgResumeWrongType = "Only PDF and DOCX resumes are accepted."
	msgResumeTooBig    = "The file is too large, the limit is 10 MB."
	msgFileProcessing  = "Processing the file..."
	msgResumeUpdated   = "✅ Resume updated."
	msgAvatarUpdated   = "✅ Photo updated."
	msgFileUploadError = "Could not save the file. Try again later."

	msgRegistrationDone  = "🎉 Registration complete! Use /profile to view your profile."
	msgRegistrationError = "Could not save your profile. Try again later."

	msgProfileNotFound  = "Profile not found. Use /start to create one."
	msgChooseField      = "What would you like to edit?"
	msgFieldUpdated     = "✅ Profile updated."
	msgFieldUpdateError = "Could not update the profile. Try again later."
	msgEnterYears       = "Total years of experience (e.g. 3.5):"
	msgResumeDeleted    = "✅ Resume removed."
	msgAvatarDeleted    = "✅ Photo removed."
	msgDeleteError      = "Could not remove the file. Try again later."

	msgSearchStep1    = "🔎 Let's find candidates. What role are you hiring for?"
	msgSearchStep2    = "Required skills (comma-separated):"
	msgSearchStep3    = "Nice-to-have skills (comma-separated), or /skip:"
	msgSearchStep4    = "Years of experience (a number or min-max, e.g. 2-5):"
	msgSearchStep5    = "Location, or /skip:"
	msgSearchRunning  = "Searching..."
	msgSearchFound    = "Found %d candidates."
	msgSearchNoMatch  = "No candidates match your filters. Try /search with different filters."
	msgSearchNoMore   = "That's everyone. Start a new /search when you're ready."
	msgSearchError    = "Search is unavailable right now. Try again later."
	msgDecisionSaved  = "Saved."
	msgDecisionLiked  = "Liked 👍"
	msgDecisionError  = "Could not save your decision."
	msgContactsWait   = "Requesting contacts..."
	msgContactsTitle  = "📞 Candidate contacts:\n\n%s"
	msgContactsDenied = "The candidate has not shared their contacts."
	msgContactsError  = "Could not fetch contacts. Try again later."
	msgResumeNone     = "This candidate has no resume on file."
	msgResumeLink     = "📄 The resume is ready:"
	msgResumeError    = "Could not fetch the resume. Try again later."

	msgCancelled      = "Action cancelled."
	msgNothingToSkip  = "Nothing to skip here."
	msgInvalidInput   = "I didn't get that. Please check the format and try again."
	msgSessionExpired = "Your session expired after inactivity. Start over with /start, /profile or /search."
	msgUnknownText    = "I'm not sure what you mean. Try /start, /profile or /search."
	msgListLimit      = "You reached the limit for %s."
	msgEmployerSoon   = "You chose the employer role. Use /search to find candidates."
)
