// Package conversation implements the bot's dialog engine: the
// registration questionnaire, the profile edit flow, and the employer
// search flow, all driven by one state machine over the session store.
package conversation

import "github.com/Be3yH4uK315/it-recruiter-bot-service/internal/session"

// Registration and edit states. Block states are shared by both flows;
// the session Mode decides where a closed block is written.
const (
	StateRegName session.State = "registration:display_name"
	StateRegRole session.State = "registration:headline_role"

	StateExpStart     session.State = "block:experience:start"
	StateExpCompany   session.State = "block:experience:company"
	StateExpPosition  session.State = "block:experience:position"
	StateExpStartDate session.State = "block:experience:start_date"
	StateExpEndDate   session.State = "block:experience:end_date"
	StateExpResp      session.State = "block:experience:responsibilities"
	StateExpMore      session.State = "block:experience:more"

	StateSkillName  session.State = "block:skill:name"
	StateSkillKind  session.State = "block:skill:kind"
	StateSkillLevel session.State = "block:skill:level"
	StateSkillMore  session.State = "block:skill:more"

	StateProjStart session.State = "block:project:start"
	StateProjTitle session.State = "block:project:title"
	StateProjDesc  session.State = "block:project:description"
	StateProjLinks session.State = "block:project:links"
	StateProjMore  session.State = "block:project:more"

	StateLocation   session.State = "profile:location"
	StateWorkModes  session.State = "profile:work_modes"
	StateContacts   session.State = "profile:contacts"
	StateVisibility session.State = "profile:contacts_visibility"

	StateUploadResume session.State = "upload:resume"
	StateUploadAvatar session.State = "upload:avatar"

	StateEditMenu  session.State = "edit:menu"
	StateEditBasic session.State = "edit:basic"
	StateEditYears session.State = "edit:experience_years"
)

// Employer search states.
const (
	StateSearchRole     session.State = "search:role"
	StateSearchMust     session.State = "search:must_skills"
	StateSearchNice     session.State = "search:nice_skills"
	StateSearchExp      session.State = "search:experience"
	StateSearchLocation session.State = "search:location"
	StateSearchResults  session.State = "search:results"
)

// Callback uniques. Telebot encodes callback data as
// "\f<unique>|<payload>"; these are the uniques the engine registers.
const (
	cbRole       = "role"
	cbConfirm    = "confirm"
	cbWorkMode   = "wmode"
	cbSkillKind  = "skind"
	cbSkillLevel = "slevel"
	cbVisibility = "visible"
	cbProfile    = "paction"
	cbEditField  = "editf"
	cbDecision   = "sdec"
	cbNext       = "snext"
	cbContact    = "scont"
	cbResume     = "sres"
)
