package models

// LanguageTrack is the language a learner studies.
type LanguageTrack string

const (
	LanguageEnglish  LanguageTrack = "en"
	LanguageMandarin LanguageTrack = "zh"
)

// Valid reports whether the track is supported.
func (l LanguageTrack) Valid() bool {
	return l == LanguageEnglish || l == LanguageMandarin
}

// LearnerCategory separates child and adult learners.
type LearnerCategory string

const (
	LearnerChild LearnerCategory = "child"
	LearnerAdult LearnerCategory = "adult"
)

// Framework names a proficiency scale.
type Framework string

const (
	FrameworkGEPT  Framework = "GEPT"
	FrameworkTOCFL Framework = "TOCFL"
	FrameworkGrade Framework = "GRADE"
)

// Frameworks lists every supported scale.
var Frameworks = []Framework{FrameworkGEPT, FrameworkTOCFL, FrameworkGrade}

// Valid reports whether the framework is one of the known scales.
func (f Framework) Valid() bool {
	switch f {
	case FrameworkGEPT, FrameworkTOCFL, FrameworkGrade:
		return true
	default:
		return false
	}
}

// LevelNumber is a proficiency level within a framework, 1 through 6.
type LevelNumber int

const (
	MinLevel LevelNumber = 1
	MaxLevel LevelNumber = 6
)

// Valid reports whether the level lies in 1..6.
func (l LevelNumber) Valid() bool {
	return l >= MinLevel && l <= MaxLevel
}

// LevelDetail describes one row of a framework table.
type LevelDetail struct {
	Label            string `json:"label" yaml:"label"`
	CEFR             string `json:"cefr" yaml:"cefr"`
	VocabMin         int    `json:"vocabMin" yaml:"vocabMin"`
	VocabMax         int    `json:"vocabMax" yaml:"vocabMax"`
	MaxSentenceWords int    `json:"maxSentenceWords" yaml:"maxSentenceWords"`
}

// FrameworkLevels maps level numbers to their detail row.
type FrameworkLevels map[LevelNumber]LevelDetail

// VocabTarget is the accepted vocabulary count range for a level.
type VocabTarget struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

var (
	geptLevels = FrameworkLevels{
		1: {Label: "GEPT Basic", CEFR: "A1", VocabMin: 5, VocabMax: 10, MaxSentenceWords: 8},
		2: {Label: "GEPT Elementary", CEFR: "A2", VocabMin: 8, VocabMax: 15, MaxSentenceWords: 12},
		3: {Label: "GEPT Elementary (High)", CEFR: "B1", VocabMin: 10, VocabMax: 20, MaxSentenceWords: 18},
		4: {Label: "GEPT Intermediate", CEFR: "B2", VocabMin: 12, VocabMax: 25, MaxSentenceWords: 22},
		5: {Label: "GEPT High-Intermediate", CEFR: "C1", VocabMin: 15, VocabMax: 30, MaxSentenceWords: 28},
		6: {Label: "GEPT Advanced", CEFR: "C2", VocabMin: 18, VocabMax: 40, MaxSentenceWords: 35},
	}

	tocflLevels = FrameworkLevels{
		1: {Label: "TOCFL Band A (Level 1)", CEFR: "A1", VocabMin: 5, VocabMax: 10, MaxSentenceWords: 6},
		2: {Label: "TOCFL Band A (Level 2)", CEFR: "A2", VocabMin: 8, VocabMax: 15, MaxSentenceWords: 10},
		3: {Label: "TOCFL Band B (Level 3)", CEFR: "B1", VocabMin: 10, VocabMax: 20, MaxSentenceWords: 14},
		4: {Label: "TOCFL Band B (Level 4)", CEFR: "B2", VocabMin: 12, VocabMax: 25, MaxSentenceWords: 18},
		5: {Label: "TOCFL Band C (Level 5)", CEFR: "C1", VocabMin: 15, VocabMax: 30, MaxSentenceWords: 22},
		6: {Label: "TOCFL Band C (Level 6)", CEFR: "C2", VocabMin: 18, VocabMax: 40, MaxSentenceWords: 28},
	}

	gradeLevels = FrameworkLevels{
		1: {Label: "Grade 1", CEFR: "A1", VocabMin: 3, VocabMax: 8, MaxSentenceWords: 6},
		2: {Label: "Grade 2", CEFR: "A1", VocabMin: 5, VocabMax: 10, MaxSentenceWords: 8},
		3: {Label: "Grade 3", CEFR: "A2", VocabMin: 6, VocabMax: 12, MaxSentenceWords: 10},
		4: {Label: "Grade 4", CEFR: "A2", VocabMin: 8, VocabMax: 15, MaxSentenceWords: 14},
		5: {Label: "Grade 5", CEFR: "B1", VocabMin: 10, VocabMax: 18, MaxSentenceWords: 18},
		6: {Label: "Grade 6", CEFR: "B1", VocabMin: 12, VocabMax: 20, MaxSentenceWords: 20},
	}
)

var cefrOrder = map[string]int{"A1": 1, "A2": 2, "B1": 3, "B2": 4, "C1": 5, "C2": 6}

// FrameworkTable returns the level table for a framework. Unknown frameworks
// fall back to GEPT; callers validate the enum at the boundary.
func FrameworkTable(framework Framework) FrameworkLevels {
	switch framework {
	case FrameworkTOCFL:
		return tocflLevels
	case FrameworkGrade:
		return gradeLevels
	default:
		return geptLevels
	}
}

// LevelDetailFor returns the row for a level, clamping out-of-range levels.
func LevelDetailFor(framework Framework, level LevelNumber) LevelDetail {
	return FrameworkTable(framework)[clampLevel(level)]
}

// VocabTargetForLevel returns the vocabulary count range for a level.
func VocabTargetForLevel(framework Framework, level LevelNumber) VocabTarget {
	detail := LevelDetailFor(framework, level)
	return VocabTarget{Min: detail.VocabMin, Max: detail.VocabMax}
}

// SentenceComplexityForLevel returns the maximum words per sentence.
func SentenceComplexityForLevel(framework Framework, level LevelNumber) int {
	return LevelDetailFor(framework, level).MaxSentenceWords
}

// IsLevelAppropriate accepts items at the plan level or one level below it
// (review material), never above.
func IsLevelAppropriate(_ Framework, planLevel, itemLevel LevelNumber) bool {
	lower := planLevel - 1
	if lower < MinLevel {
		lower = MinLevel
	}
	return itemLevel <= planLevel && itemLevel >= lower
}

// InferFramework picks the scale for a learner: children use grade levels,
// adults the exam matching their target language.
func InferFramework(language LanguageTrack, category LearnerCategory) Framework {
	if category == LearnerChild {
		return FrameworkGrade
	}
	if language == LanguageEnglish {
		return FrameworkGEPT
	}
	return FrameworkTOCFL
}

// ProficiencyLevel is a resolved level for one learner and language.
type ProficiencyLevel struct {
	Language  LanguageTrack   `json:"language"`
	Category  LearnerCategory `json:"category"`
	Framework Framework       `json:"framework"`
	Level     LevelNumber     `json:"level"`
	Label     string          `json:"label"`
	CEFR      string          `json:"cefr"`
}

// BuildProficiency resolves label and CEFR band for a level. An empty
// framework is inferred from language and category.
func BuildProficiency(language LanguageTrack, category LearnerCategory, level LevelNumber, framework Framework) ProficiencyLevel {
	if framework == "" {
		framework = InferFramework(language, category)
	}
	detail := LevelDetailFor(framework, level)
	return ProficiencyLevel{
		Language:  language,
		Category:  category,
		Framework: framework,
		Level:     level,
		Label:     detail.Label,
		CEFR:      detail.CEFR,
	}
}

// CompareLevels orders two proficiencies. Within one framework it is the level
// difference; across frameworks it is the CEFR band difference.
func CompareLevels(a, b ProficiencyLevel) int {
	if a.Framework == b.Framework {
		return int(a.Level - b.Level)
	}
	return cefrOrder[a.CEFR] - cefrOrder[b.CEFR]
}

func clampLevel(level LevelNumber) LevelNumber {
	if level < MinLevel {
		return MinLevel
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}
