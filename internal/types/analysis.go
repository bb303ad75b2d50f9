package types

import "time"

// MatchPercentage holds the 0-100 compatibility scores of a resume against the suggested career
type MatchPercentage struct {
	Overall    int `json:"overall" validate:"min=0,max=100"`
	Technical  int `json:"technical" validate:"min=0,max=100"`
	Experience int `json:"experience" validate:"min=0,max=100"`
	Education  int `json:"education" validate:"min=0,max=100"`
}

// StrengthsAnalysis lists what the resume already does well
type StrengthsAnalysis struct {
	HighlightedSkills    []string `json:"highlightedSkills"`
	KeyStrengths         []string `json:"keyStrengths"`
	ExperienceHighlights []string `json:"experienceHighlights"`
	SoftSkills           []string `json:"softSkills"`
	PositiveIndicators   []string `json:"positiveIndicators"`
}

// SkillGap is a skill the candidate lacks for the suggested career
type SkillGap struct {
	Skill       string `json:"skill"`
	Importance  string `json:"importance" validate:"oneof=High Medium Low"`
	TimeToLearn string `json:"timeToLearn"`
	Difficulty  string `json:"difficulty" validate:"oneof=Beginner Intermediate Advanced"`
	Description string `json:"description"`
}

// SalaryRange holds integer salary amounts per seniority level
type SalaryRange struct {
	Currency string `json:"currency"`
	Entry    int    `json:"entry" validate:"min=0"`
	Mid      int    `json:"mid" validate:"min=0"`
	Senior   int    `json:"senior" validate:"min=0"`
	Location string `json:"location,omitempty"`
}

// RegionSpecific narrows job market data to one location
type RegionSpecific struct {
	Location      string      `json:"location"`
	LocalDemand   int         `json:"localDemand" validate:"min=0,max=100"`
	AverageSalary SalaryRange `json:"averageSalary"`
}

// JobMarketData describes demand for the suggested career
type JobMarketData struct {
	DemandScore         int             `json:"demandScore" validate:"min=0,max=100"`
	GrowthRate          float64         `json:"growthRate"`
	Trend               string          `json:"trend" validate:"oneof=Growing Stable Declining"`
	CompetitionLevel    string          `json:"competitionLevel" validate:"oneof=Low Medium High"`
	RemoteOpportunities int             `json:"remoteOpportunities" validate:"min=0,max=100"`
	MarketInsights      []string        `json:"marketInsights"`
	RegionSpecific      *RegionSpecific `json:"regionSpecific,omitempty"`
}

// Company is an employer suggestion
type Company struct {
	Name           string   `json:"name"`
	Industry       string   `json:"industry"`
	Size           string   `json:"size" validate:"oneof=Startup Small Medium Large Enterprise"`
	Location       string   `json:"location"`
	RemotePolicy   string   `json:"remotePolicy" validate:"oneof=Remote Hybrid On-site Flexible"`
	ActivelyHiring bool     `json:"activelyHiring"`
	Culture        []string `json:"culture"`
	Benefits       []string `json:"benefits"`
	Website        string   `json:"website,omitempty"`
	LogoURL        string   `json:"logoUrl,omitempty"`
}

// LearningResource is a course, book or tutorial that closes a skill gap
type LearningResource struct {
	Title       string   `json:"title"`
	Provider    string   `json:"provider"`
	Type        string   `json:"type" validate:"oneof=Course Certification Tutorial Book Documentation"`
	Duration    string   `json:"duration"`
	Difficulty  string   `json:"difficulty" validate:"oneof=Beginner Intermediate Advanced"`
	Cost        string   `json:"cost" validate:"oneof=Free Paid Freemium"`
	Rating      float64  `json:"rating" validate:"min=0,max=5"`
	URL         string   `json:"url"`
	Description string   `json:"description"`
	Skills      []string `json:"skills"`
}

// CulturalFitScores rates fit per organisation type
type CulturalFitScores struct {
	Startup   int `json:"startup" validate:"min=0,max=100"`
	Corporate int `json:"corporate" validate:"min=0,max=100"`
	Agency    int `json:"agency" validate:"min=0,max=100"`
	Nonprofit int `json:"nonprofit" validate:"min=0,max=100"`
}

// CulturalFitAnalysis describes the working environment the candidate suits
type CulturalFitAnalysis struct {
	WorkStyle             string            `json:"workStyle" validate:"oneof=Independent Collaborative Mixed"`
	EnvironmentPreference string            `json:"environmentPreference" validate:"oneof=Startup Corporate Agency Consultancy Non-profit"`
	TeamSize              string            `json:"teamSize" validate:"oneof=Small Medium Large Flexible"`
	WorkArrangement       string            `json:"workArrangement" validate:"oneof=Remote Hybrid On-site Flexible"`
	ManagementStyle       string            `json:"managementStyle" validate:"oneof=Autonomous Guided Structured"`
	InnovationLevel       string            `json:"innovationLevel" validate:"oneof=High Medium Low"`
	RiskTolerance         string            `json:"riskTolerance" validate:"oneof=High Medium Low"`
	PersonalityTraits     []string          `json:"personalityTraits"`
	CulturalFitScores     CulturalFitScores `json:"culturalFitScores"`
}

// AlternativeCareer is a neighbouring role the candidate could move into
type AlternativeCareer struct {
	Title                  string   `json:"title"`
	MatchPercentage        int      `json:"matchPercentage" validate:"min=0,max=100"`
	OverlapSkills          []string `json:"overlapSkills"`
	AdditionalSkillsNeeded []string `json:"additionalSkillsNeeded"`
	TransitionDifficulty   string   `json:"transitionDifficulty" validate:"oneof=Easy Medium Hard"`
	TimeToTransition       string   `json:"timeToTransition"`
	SalaryComparison       string   `json:"salaryComparison" validate:"oneof=Higher Similar Lower"`
	Description            string   `json:"description"`
	KeyDifferences         []string `json:"keyDifferences"`
}

// CareerMilestone is one step on the projected career timeline
type CareerMilestone struct {
	Year             int      `json:"year"`
	Level            string   `json:"level" validate:"oneof=Junior Mid-level Senior Lead Principal"`
	Title            string   `json:"title"`
	Responsibilities []string `json:"responsibilities"`
	RequiredSkills   []string `json:"requiredSkills"`
	Certifications   []string `json:"certifications"`
	AverageSalary    int      `json:"averageSalary" validate:"min=0"`
	KeyAchievements  []string `json:"keyAchievements"`
}

// SkillProgression groups skills to build over time
type SkillProgression struct {
	Technical  []string `json:"technical"`
	Leadership []string `json:"leadership"`
	Domain     []string `json:"domain"`
}

// CareerTimeline projects progression from the current level
type CareerTimeline struct {
	CurrentLevel     string            `json:"currentLevel"`
	TimeToNextLevel  string            `json:"timeToNextLevel"`
	Milestones       []CareerMilestone `json:"milestones" validate:"dive"`
	AlternativePaths []string          `json:"alternativePaths"`
	SkillProgression SkillProgression  `json:"skillProgression"`
}

// ScoredSuggestions is a feedback area with a score and suggestions
type ScoredSuggestions struct {
	Score       int      `json:"score" validate:"min=0,max=100"`
	Suggestions []string `json:"suggestions"`
}

// KeywordFeedback reports missing keywords
type KeywordFeedback struct {
	Score           int      `json:"score" validate:"min=0,max=100"`
	MissingKeywords []string `json:"missingKeywords"`
	Suggestions     []string `json:"suggestions"`
}

// IssueFeedback reports problems and improvements for one area
type IssueFeedback struct {
	Score        int      `json:"score" validate:"min=0,max=100"`
	Issues       []string `json:"issues"`
	Improvements []string `json:"improvements"`
}

// ContentFeedback reports on the resume body
type ContentFeedback struct {
	Score       int      `json:"score" validate:"min=0,max=100"`
	Strengths   []string `json:"strengths"`
	Weaknesses  []string `json:"weaknesses"`
	Suggestions []string `json:"suggestions"`
}

// ResumeFeedback scores the resume document itself
type ResumeFeedback struct {
	OverallScore        int               `json:"overallScore" validate:"min=0,max=100"`
	Clarity             ScoredSuggestions `json:"clarity"`
	KeywordOptimization KeywordFeedback   `json:"keywordOptimization"`
	Formatting          IssueFeedback     `json:"formatting"`
	Content             ContentFeedback   `json:"content"`
	ATSCompatibility    IssueFeedback     `json:"atsCompatibility"`
}

// NetworkingOpportunity is an event or community worth joining
type NetworkingOpportunity struct {
	Name           string   `json:"name"`
	Type           string   `json:"type" validate:"oneof=Event Community Group Conference Meetup 'Online Forum'"`
	Description    string   `json:"description"`
	URL            string   `json:"url"`
	Location       string   `json:"location,omitempty"`
	Date           string   `json:"date,omitempty"`
	Cost           string   `json:"cost" validate:"oneof=Free Paid"`
	RelevanceScore int      `json:"relevanceScore" validate:"min=0,max=100"`
	AttendeeCount  string   `json:"attendeeCount,omitempty"`
	Focus          []string `json:"focus"`
}

// ActionPlanStep is one concrete task in the action plan
type ActionPlanStep struct {
	ID             int                `json:"id"`
	Title          string             `json:"title"`
	Description    string             `json:"description"`
	Category       string             `json:"category" validate:"oneof=Learning Building Networking Applying Certification"`
	Timeframe      string             `json:"timeframe"`
	Difficulty     string             `json:"difficulty" validate:"oneof=Easy Medium Hard"`
	Priority       string             `json:"priority" validate:"oneof=High Medium Low"`
	Resources      []LearningResource `json:"resources" validate:"dive"`
	Completed      bool               `json:"completed"`
	Prerequisites  []int              `json:"prerequisites,omitempty"`
	EstimatedHours int                `json:"estimatedHours" validate:"min=0"`
}

// ActionPlan splits steps into phases: 0-3, 3-6 and 6-12 months
type ActionPlan struct {
	Phase1             []ActionPlanStep `json:"phase1" validate:"dive"`
	Phase2             []ActionPlanStep `json:"phase2" validate:"dive"`
	Phase3             []ActionPlanStep `json:"phase3" validate:"dive"`
	TotalEstimatedTime string           `json:"totalEstimatedTime"`
	QuickWins          []ActionPlanStep `json:"quickWins" validate:"dive"`
}

// Steps returns every step of the three phases in order
func (p ActionPlan) Steps() []ActionPlanStep {
	steps := make([]ActionPlanStep, 0, len(p.Phase1)+len(p.Phase2)+len(p.Phase3))
	steps = append(steps, p.Phase1...)
	steps = append(steps, p.Phase2...)
	return append(steps, p.Phase3...)
}

// GitHubProject is a public repository considered in the portfolio analysis
type GitHubProject struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	Language       string `json:"language"`
	Stars          int    `json:"stars"`
	Forks          int    `json:"forks"`
	URL            string `json:"url"`
	LastUpdated    string `json:"lastUpdated"`
	RelevanceScore int    `json:"relevanceScore" validate:"min=0,max=100"`
}

// GitHubStats summarises public repository activity
type GitHubStats struct {
	Repositories  int             `json:"repositories"`
	Contributions int             `json:"contributions"`
	Languages     map[string]int  `json:"languages"`
	TopProjects   []GitHubProject `json:"topProjects" validate:"dive"`
}

// PortfolioAnalysis scores the candidate's public work
type PortfolioAnalysis struct {
	GitHubStats     *GitHubStats `json:"githubStats,omitempty"`
	PortfolioScore  int          `json:"portfolioScore" validate:"min=0,max=100"`
	Strengths       []string     `json:"strengths"`
	Improvements    []string     `json:"improvements"`
	MissingProjects []string     `json:"missingProjects"`
	Recommendations []string     `json:"recommendations"`
}

// Badge is an unlocked gamification badge
type Badge struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	UnlockedAt  time.Time `json:"unlockedAt"`
	Category    string    `json:"category" validate:"oneof=Learning Building Networking Achievement"`
}

// Achievement tracks progress toward a target
type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Progress    int    `json:"progress"`
	Target      int    `json:"target"`
	Reward      string `json:"reward"`
	Category    string `json:"category"`
}

// WeeklyProgress counts activity for the current week
type WeeklyProgress struct {
	SkillsLearned         int `json:"skillsLearned"`
	ProjectsCompleted     int `json:"projectsCompleted"`
	ApplicationsSubmitted int `json:"applicationsSubmitted"`
	NetworkingEvents      int `json:"networkingEvents"`
}

// GamificationData tracks levels, badges and readiness
type GamificationData struct {
	Level                int            `json:"level"`
	XP                   int            `json:"xp"`
	XPToNextLevel        int            `json:"xpToNextLevel"`
	Badges               []Badge        `json:"badges" validate:"dive"`
	Achievements         []Achievement  `json:"achievements"`
	CareerReadinessLevel int            `json:"careerReadinessLevel" validate:"min=0,max=100"`
	WeeklyProgress       WeeklyProgress `json:"weeklyProgress"`
}

// Coordinates is a latitude/longitude pair
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// LocationData identifies a place
type LocationData struct {
	City        string       `json:"city"`
	Country     string       `json:"country"`
	Region      string       `json:"region"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// LocalJobMarket is the job market for one location
type LocalJobMarket struct {
	TotalJobs         int    `json:"totalJobs"`
	DemandTrend       string `json:"demandTrend" validate:"oneof=High Medium Low"`
	CompetitionLevel  string `json:"competitionLevel" validate:"oneof=Low Medium High"`
	AverageTimeToHire int    `json:"averageTimeToHire"`
}

// CostOfLiving adjusts salaries to a location
type CostOfLiving struct {
	Index          float64     `json:"index"`
	AdjustedSalary SalaryRange `json:"adjustedSalary"`
}

// LocationBasedData is market data for the candidate's location
type LocationBasedData struct {
	Location         LocationData            `json:"location"`
	JobMarket        LocalJobMarket          `json:"jobMarket"`
	SalaryData       SalaryRange             `json:"salaryData"`
	CostOfLiving     CostOfLiving            `json:"costOfLiving"`
	TopEmployers     []Company               `json:"topEmployers" validate:"dive"`
	NetworkingEvents []NetworkingOpportunity `json:"networkingEvents" validate:"dive"`
}

// AnalysisRecord is the typed result of analysing one resume.
// A record is built once per analysis and never updated in place.
// Every group except LocationData and PortfolioAnalysis is required, and
// every enum field must hold one of its declared values.
type AnalysisRecord struct {
	Timestamp time.Time `json:"timestamp"`
	UserID    string    `json:"userId,omitempty"`

	SuggestedCareer string          `json:"suggestedCareer" validate:"required"`
	MatchPercentage MatchPercentage `json:"matchPercentage" validate:"required"`

	Strengths               StrengthsAnalysis       `json:"strengths" validate:"required"`
	SkillGaps               []SkillGap              `json:"skillGaps" validate:"required,dive"`
	JobMarket               JobMarketData           `json:"jobMarket" validate:"required"`
	TopCompanies            []Company               `json:"topCompanies" validate:"required,dive"`
	LearningResources       []LearningResource      `json:"learningResources" validate:"required,dive"`
	CulturalFit             CulturalFitAnalysis     `json:"culturalFit" validate:"required"`
	AlternativeCareers      []AlternativeCareer     `json:"alternativeCareers" validate:"required,dive"`
	CareerTimeline          CareerTimeline          `json:"careerTimeline" validate:"required"`
	ResumeFeedback          ResumeFeedback          `json:"resumeFeedback" validate:"required"`
	NetworkingOpportunities []NetworkingOpportunity `json:"networkingOpportunities" validate:"required,dive"`

	ActionPlan        ActionPlan         `json:"actionPlan" validate:"required"`
	LocationData      *LocationBasedData `json:"locationData,omitempty"`
	PortfolioAnalysis *PortfolioAnalysis `json:"portfolioAnalysis,omitempty"`
	Gamification      GamificationData   `json:"gamification" validate:"required"`

	SalaryPredictions     SalaryRange `json:"salaryPredictions" validate:"required"`
	CareerPathSuggestions []string    `json:"careerPathSuggestions" validate:"required"`
}
