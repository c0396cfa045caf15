package validate

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Be3yH4uK315/it-recruiter-bot-service/internal/domain"
)

func TestDate(t *testing.T) {
	d, err := Date(" 2021-03-15 ")
	require.NoError(t, err)
	assert.Equal(t, "2021-03-15", d.String())

	_, err = Date("15.03.2021")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestEndDate(t *testing.T) {
	for _, alias := range []string{"present", "NOW", "Current", " ongoing "} {
		end, err := EndDate(alias)
		require.NoError(t, err, alias)
		assert.Nil(t, end, alias)
	}

	end, err := EndDate("2022-01-01")
	require.NoError(t, err)
	require.NotNil(t, end)
	assert.Equal(t, "2022-01-01", end.String())

	_, err = EndDate("someday")
	assert.Error(t, err)
}

func TestName(t *testing.T) {
	got, err := Name("  Ada Lovelace ")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", got)

	_, err = Name("A")
	assert.Error(t, err)
}

func TestLocation(t *testing.T) {
	got, err := Location("berlin")
	require.NoError(t, err)
	assert.Equal(t, "Berlin", got)

	// Capitalization works on the first rune, not the first byte.
	got, err = Location("берлин")
	require.NoError(t, err)
	assert.Equal(t, "Берлин", got)
	assert.True(t, utf8.ValidString(got))

	got, err = Location("Москва")
	require.NoError(t, err)
	assert.Equal(t, "Москва", got)
}

func TestSkillLevel(t *testing.T) {
	n, err := SkillLevel(" 3 ")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	for _, bad := range []string{"0", "6", "x", ""} {
		_, err := SkillLevel(bad)
		assert.Error(t, err, bad)
	}
}

func TestSkillsCSV(t *testing.T) {
	skills, err := SkillsCSV("Go, PostgreSQL ,, redis")
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "postgresql", "redis"}, skills)

	_, err = SkillsCSV(" , ")
	assert.Error(t, err)
}

func TestExperienceRange(t *testing.T) {
	min, max, err := ExperienceRange("2-5")
	require.NoError(t, err)
	assert.Equal(t, 2.0, min)
	require.NotNil(t, max)
	assert.Equal(t, 5.0, *max)

	min, max, err = ExperienceRange("3")
	require.NoError(t, err)
	assert.Equal(t, 3.0, min)
	assert.Nil(t, max)

	min, max, err = ExperienceRange("5+")
	require.NoError(t, err)
	assert.Equal(t, 5.0, min)
	assert.Nil(t, max)

	_, _, err = ExperienceRange("+")
	assert.Error(t, err)

	_, _, err = ExperienceRange("5-2")
	assert.Error(t, err)

	_, _, err = ExperienceRange("abc")
	assert.Error(t, err)
}

func TestYears(t *testing.T) {
	v, err := Years("3,5")
	require.NoError(t, err)
	assert.Equal(t, 3.5, v)

	for _, bad := range []string{"-1", "100", "abc"} {
		_, err := Years(bad)
		assert.Error(t, err, bad)
	}
}

func TestProjectLinks(t *testing.T) {
	links, err := ProjectLinks("github: https://github.com/acme/x, https://acme.dev")
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/acme/x", links["github"])
	assert.Equal(t, "https://acme.dev", links["main_link"])

	_, err = ProjectLinks("github: not-a-url")
	assert.Error(t, err)

	links, err = ProjectLinks("  ")
	require.NoError(t, err)
	assert.Nil(t, links)
}

func TestContacts(t *testing.T) {
	c, err := Contacts("email: a@b.co, phone: +14155552671, tg: @ada")
	require.NoError(t, err)
	assert.Equal(t, "a@b.co", c.Email)
	assert.Equal(t, "+14155552671", c.Phone)
	assert.Equal(t, "@ada", c.Telegram)

	_, err = Contacts("email: nope")
	assert.Error(t, err)

	_, err = Contacts("fax: 123")
	assert.Error(t, err)

	_, err = Contacts("just text")
	assert.Error(t, err)
}
