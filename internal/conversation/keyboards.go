package conversation

import (
	"github.com/Be3yH4uK315/it-recruiter-bot-service/core/telegram/keyboard"
	"github.com/Be3yH4uK315/it-recruiter-bot-service/internal/domain"

	tele "gopkg.in/telebot.v4"
)

func roleKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "👤 I'm a candidate", Unique: cbRole, Data: "candidate"},
		{Text: "🏢 I'm an employer", Unique: cbRole, Data: "employer"},
	})
}

func confirmKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: "✅ Yes", Unique: cbConfirm, Data: "yes"},
		{Text: "➡️ No, continue", Unique: cbConfirm, Data: "no"},
	})
}

func workModesKeyboard(selected []domain.WorkMode) *tele.ReplyMarkup {
	mark := func(m domain.WorkMode, label string) string {
		for _, s := range selected {
			if s == m {
				return "✅ " + label
			}
		}
		return label
	}
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: mark(domain.WorkRemote, "Remote"), Unique: cbWorkMode, Data: string(domain.WorkRemote)},
			{Text: mark(domain.WorkOffice, "Office"), Unique: cbWorkMode, Data: string(domain.WorkOffice)},
			{Text: mark(domain.WorkHybrid, "Hybrid"), Unique: cbWorkMode, Data: string(domain.WorkHybrid)},
		},
		[]keyboard.InlineBtn{
			{Text: "Done", Unique: cbWorkMode, Data: "done"},
		},
	)
}

func skillKindKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: "Hard skill", Unique: cbSkillKind, Data: string(domain.SkillHard)},
		{Text: "Tool", Unique: cbSkillKind, Data: string(domain.SkillTool)},
		{Text: "Language", Unique: cbSkillKind, Data: string(domain.SkillLanguage)},
	})
}

func skillLevelKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: "1", Unique: cbSkillLevel, Data: "1"},
		{Text: "2", Unique: cbSkillLevel, Data: "2"},
		{Text: "3", Unique: cbSkillLevel, Data: "3"},
		{Text: "4", Unique: cbSkillLevel, Data: "4"},
		{Text: "5", Unique: cbSkillLevel, Data: "5"},
	})
}

func visibilityKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "🌍 Public", Unique: cbVisibility, Data: string(domain.VisibilityPublic)},
		{Text: "🤝 On request", Unique: cbVisibility, Data: string(domain.VisibilityOnRequest)},
		{Text: "🙈 Hidden", Unique: cbVisibility, Data: string(domain.VisibilityHidden)},
	})
}

func profileActionsKeyboard(hasResume, hasAvatar bool) *tele.ReplyMarkup {
	btns := []keyboard.InlineBtn{
		{Text: "✏️ Edit profile", Unique: cbProfile, Data: "edit"},
		{Text: "📄 Upload resume", Unique: cbProfile, Data: "upload_resume"},
		{Text: "🖼 Upload photo", Unique: cbProfile, Data: "upload_avatar"},
	}
	if hasResume {
		btns = append(btns, keyboard.InlineBtn{Text: "🗑 Remove resume", Unique: cbProfile, Data: "delete_resume"})
	}
	if hasAvatar {
		btns = append(btns, keyboard.InlineBtn{Text: "🗑 Remove photo", Unique: cbProfile, Data: "delete_avatar"})
	}
	return keyboard.InlineButtonsNPerRow(btns, 2)
}

func editMenuKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: "Name", Unique: cbEditField, Data: "display_name"},
			{Text: "Role", Unique: cbEditField, Data: "headline_role"},
		},
		[]keyboard.InlineBtn{
			{Text: "Location", Unique: cbEditField, Data: "location"},
			{Text: "Years of experience", Unique: cbEditField, Data: "experience_years"},
		},
		[]keyboard.InlineBtn{
			{Text: "Work experience", Unique: cbEditField, Data: "experiences"},
			{Text: "Skills", Unique: cbEditField, Data: "skills"},
		},
		[]keyboard.InlineBtn{
			{Text: "Projects", Unique: cbEditField, Data: "projects"},
			{Text: "Work modes", Unique: cbEditField, Data: "work_modes"},
		},
		[]keyboard.InlineBtn{
			{Text: "Contacts", Unique: cbEditField, Data: "contacts"},
		},
		[]keyboard.InlineBtn{
			{Text: "⬅️ Back", Unique: cbEditField, Data: "back"},
		},
	)
}

func searchResultKeyboard(candidateID string, hasResume bool) *tele.ReplyMarkup {
	rows := [][]keyboard.InlineBtn{
		{
			{Text: "👍 Like", Unique: cbDecision, Data: "like:" + candidateID},
			{Text: "👎 Pass", Unique: cbDecision, Data: "dislike:" + candidateID},
		},
	}
	if hasResume {
		rows = append(rows, []keyboard.InlineBtn{
			{Text: "📄 Resume", Unique: cbResume, Data: candidateID},
		})
	}
	rows = append(rows, []keyboard.InlineBtn{
		{Text: "➡️ Next", Unique: cbNext, Data: "next"},
	})
	return keyboard.InlineButtonsRows(rows...)
}

func likedCandidateKeyboard(candidateID string) *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: "📞 Show contacts", Unique: cbContact, Data: candidateID},
		},
		[]keyboard.InlineBtn{
			{Text: "➡️ Next", Unique: cbNext, Data: "next"},
		},
	)
}

func urlKeyboard(label, url string) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(markup.URL(label, url)))
	return markup
}
