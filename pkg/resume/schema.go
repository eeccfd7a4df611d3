package resume

import "github.com/artem13815/portfolio/pkg/llm/structured"

// NamePlaceholder is what the model is told to emit when no name is present.
const NamePlaceholder = "UNKNOWN"

// ProfileSchema describes the JSON object the profile prompt asks for.
var ProfileSchema = structured.Schema{
	Name: "ResumeProfile",
	Description: `You are an expert resume parser. Extract data from the provided resume.
Copy facts from the text; do not invent employers, dates, degrees or contact details.`,
	Rules: []string{
		`"fullName" is the person's name only. Never put a street address, city, phone number or job title there.`,
		`If no person's name is present, set "fullName" to "` + NamePlaceholder + `".`,
		`"level" is your estimate of proficiency from 0 to 100.`,
		`Use "" for missing strings.`,
	},
	Fields: []structured.Field{
		{Name: "fullName", Type: structured.String, Description: "candidate's full name", Default: NamePlaceholder},
		{Name: "headline", Type: structured.String, Description: "job title or role"},
		{Name: "about", Type: structured.String, Description: "short professional bio"},
		{Name: "location", Type: structured.String},
		{Name: "email", Type: structured.String},
		{Name: "phone", Type: structured.String},
		{Name: "linkedin", Type: structured.String, Description: "URL"},
		{Name: "github", Type: structured.String, Description: "URL"},
		{Name: "website", Type: structured.String, Description: "URL"},
		{Name: "skills", Type: structured.Array, Items: &structured.Field{Type: structured.Object, Fields: []structured.Field{
			{Name: "name", Type: structured.String},
			{Name: "level", Type: structured.Integer, Description: "0-100", Default: 50},
			{Name: "category", Type: structured.String, Enum: SkillCategories, Default: CategoryOther},
		}}},
		{Name: "experience", Type: structured.Array, Items: &structured.Field{Type: structured.Object, Fields: []structured.Field{
			{Name: "company", Type: structured.String},
			{Name: "role", Type: structured.String},
			{Name: "period", Type: structured.String, Description: "e.g. Jan 2020 - Present"},
			{Name: "description", Type: structured.String},
		}}},
		{Name: "education", Type: structured.Array, Items: &structured.Field{Type: structured.Object, Fields: []structured.Field{
			{Name: "institution", Type: structured.String},
			{Name: "degree", Type: structured.String},
			{Name: "year", Type: structured.String},
		}}},
		{Name: "projects", Type: structured.Array, Items: &structured.Field{Type: structured.Object, Fields: []structured.Field{
			{Name: "name", Type: structured.String},
			{Name: "description", Type: structured.String},
			{Name: "technologies", Type: structured.Array, Items: &structured.Field{Type: structured.String}},
			{Name: "link", Type: structured.String, Description: "URL"},
		}}},
	},
}

var profileDecoder = structured.MustDecoder(ProfileSchema)

// BuildProfilePrompt renders the extraction prompt for resumeText.
func BuildProfilePrompt(resumeText string) string {
	return structured.BuildPrompt(ProfileSchema, resumeText)
}

// DecodeProfile parses a model reply into a normalized Profile.
func DecodeProfile(raw string) (Profile, error) {
	var p Profile
	if err := profileDecoder.Decode(raw, &p); err != nil {
		return Profile{}, err
	}
	p.Normalize()
	return p, nil
}
