package ai

import (
	"time"

	"resumematch/internal/types"
)

// DemoAnalysis returns the fixed sample analysis served by the mock provider
func DemoAnalysis(now time.Time) *types.AnalysisRecord {
	return &types.AnalysisRecord{
		Timestamp:       now,
		SuggestedCareer: "Frontend Developer",
		MatchPercentage: types.MatchPercentage{Overall: 78, Technical: 75, Experience: 80, Education: 80},
		Strengths: types.StrengthsAnalysis{
			HighlightedSkills:    []string{"JavaScript", "React", "CSS", "HTML", "Git"},
			KeyStrengths:         []string{"Problem Solving", "Attention to Detail", "Quick Learner"},
			ExperienceHighlights: []string{"Built 3 web applications", "Contributed to open source"},
			SoftSkills:           []string{"Communication", "Teamwork", "Adaptability"},
			PositiveIndicators:   []string{"Active GitHub profile", "Recent project portfolio", "Continuous learning"},
		},
		SkillGaps: []types.SkillGap{
			{Skill: "TypeScript", Importance: "High", TimeToLearn: "2-3 months", Difficulty: "Intermediate", Description: "Essential for modern React development"},
			{Skill: "Node.js", Importance: "Medium", TimeToLearn: "3-4 months", Difficulty: "Intermediate", Description: "Useful for full-stack capabilities"},
			{Skill: "Testing (Jest/Cypress)", Importance: "High", TimeToLearn: "1-2 months", Difficulty: "Beginner", Description: "Critical for professional development"},
		},
		JobMarket: types.JobMarketData{
			DemandScore:         85,
			GrowthRate:          12,
			Trend:               "Growing",
			CompetitionLevel:    "Medium",
			RemoteOpportunities: 78,
			MarketInsights: []string{
				"Frontend roles are in high demand across all industries",
				"React remains the most sought-after frontend framework",
				"Remote-first companies increasing hiring for this role",
			},
		},
		TopCompanies: []types.Company{
			{
				Name: "TechCorp Solutions", Industry: "Technology", Size: "Medium", Location: "London",
				RemotePolicy: "Hybrid", ActivelyHiring: true,
				Culture:  []string{"innovative", "collaborative", "fast-paced"},
				Benefits: []string{"flexible hours", "learning budget", "health insurance"},
			},
			{
				Name: "StartupXYZ", Industry: "FinTech", Size: "Startup", Location: "Remote",
				RemotePolicy: "Remote", ActivelyHiring: true,
				Culture:  []string{"entrepreneurial", "agile", "growth-focused"},
				Benefits: []string{"equity", "unlimited PTO", "home office stipend"},
			},
			{
				Name: "Global Enterprise Ltd", Industry: "Finance", Size: "Large", Location: "Manchester",
				RemotePolicy: "Hybrid", ActivelyHiring: false,
				Culture:  []string{"structured", "stable", "professional"},
				Benefits: []string{"pension", "training programs", "career progression"},
			},
		},
		LearningResources: []types.LearningResource{
			{
				Title: "React - The Complete Guide", Provider: "Udemy", Type: "Course", Duration: "8 weeks",
				Difficulty: "Intermediate", Cost: "Paid", Rating: 4.7, URL: "https://udemy.com/react-complete-guide",
				Description: "Master React with hooks, context, and modern patterns",
				Skills:      []string{"React", "JavaScript", "Hooks"},
			},
			{
				Title: "TypeScript Fundamentals", Provider: "freeCodeCamp", Type: "Tutorial", Duration: "4 weeks",
				Difficulty: "Beginner", Cost: "Free", Rating: 4.5, URL: "https://freecodecamp.org/typescript",
				Description: "Learn TypeScript from basics to advanced concepts",
				Skills:      []string{"TypeScript", "JavaScript"},
			},
			{
				Title: "AWS Certified Developer", Provider: "AWS", Type: "Certification", Duration: "12 weeks",
				Difficulty: "Advanced", Cost: "Paid", Rating: 4.8, URL: "https://aws.amazon.com/certification/",
				Description: "Become certified in AWS development services",
				Skills:      []string{"AWS", "Cloud", "DevOps"},
			},
		},
		CulturalFit: types.CulturalFitAnalysis{
			WorkStyle:             "Collaborative",
			EnvironmentPreference: "Startup",
			TeamSize:              "Medium",
			WorkArrangement:       "Hybrid",
			ManagementStyle:       "Autonomous",
			InnovationLevel:       "High",
			RiskTolerance:         "Medium",
			PersonalityTraits:     []string{"analytical", "creative", "detail-oriented"},
			CulturalFitScores:     types.CulturalFitScores{Startup: 85, Corporate: 65, Agency: 78, Nonprofit: 45},
		},
		AlternativeCareers: []types.AlternativeCareer{
			{
				Title: "Full Stack Developer", MatchPercentage: 85,
				OverlapSkills:          []string{"JavaScript", "React", "Git"},
				AdditionalSkillsNeeded: []string{"Node.js", "Databases", "APIs"},
				TransitionDifficulty:   "Medium", TimeToTransition: "6-9 months", SalaryComparison: "Higher",
				Description:    "Combine frontend skills with backend development",
				KeyDifferences: []string{"Backend development", "Database management", "API design"},
			},
			{
				Title: "UI/UX Designer", MatchPercentage: 70,
				OverlapSkills:          []string{"CSS", "User Experience", "Design Thinking"},
				AdditionalSkillsNeeded: []string{"Figma", "Design Principles", "User Research"},
				TransitionDifficulty:   "Medium", TimeToTransition: "4-6 months", SalaryComparison: "Similar",
				Description:    "Focus on user interface and experience design",
				KeyDifferences: []string{"More design-focused", "User research", "Prototyping"},
			},
		},
		CareerTimeline: types.CareerTimeline{
			CurrentLevel:    "Junior",
			TimeToNextLevel: "12-18 months",
			Milestones: []types.CareerMilestone{
				{
					Year: 1, Level: "Junior", Title: "Junior Frontend Developer",
					Responsibilities: []string{"Implement UI components", "Fix bugs", "Learn codebase"},
					RequiredSkills:   []string{"HTML", "CSS", "JavaScript", "React"},
					Certifications:   []string{},
					AverageSalary:    28000,
					KeyAchievements:  []string{"First production deployment", "Code review participation"},
				},
				{
					Year: 2, Level: "Mid-level", Title: "Frontend Developer",
					Responsibilities: []string{"Feature development", "Code reviews", "Mentor juniors"},
					RequiredSkills:   []string{"TypeScript", "Testing", "Performance optimization"},
					Certifications:   []string{"React Developer Certification"},
					AverageSalary:    45000,
					KeyAchievements:  []string{"Lead feature development", "Improve code quality"},
				},
				{
					Year: 3, Level: "Senior", Title: "Senior Frontend Developer",
					Responsibilities: []string{"Architecture decisions", "Team leadership", "Technical strategy"},
					RequiredSkills:   []string{"System design", "Leadership", "Advanced React patterns"},
					Certifications:   []string{"AWS Developer Associate"},
					AverageSalary:    65000,
					KeyAchievements:  []string{"Technical leadership", "Mentor team members"},
				},
			},
			AlternativePaths: []string{"Full Stack Developer", "Frontend Architect", "Technical Lead"},
			SkillProgression: types.SkillProgression{
				Technical:  []string{"TypeScript", "Testing", "Performance", "Architecture"},
				Leadership: []string{"Mentoring", "Code Reviews", "Technical Decision Making"},
				Domain:     []string{"E-commerce", "SaaS", "Mobile Web"},
			},
		},
		ResumeFeedback: types.ResumeFeedback{
			OverallScore: 75,
			Clarity: types.ScoredSuggestions{
				Score:       80,
				Suggestions: []string{"Add more quantified achievements", "Use stronger action verbs"},
			},
			KeywordOptimization: types.KeywordFeedback{
				Score:           70,
				MissingKeywords: []string{"TypeScript", "Testing", "Agile"},
				Suggestions:     []string{"Include more technical keywords", "Add industry buzzwords"},
			},
			Formatting: types.IssueFeedback{
				Score:        85,
				Issues:       []string{"Inconsistent bullet points"},
				Improvements: []string{"Use consistent formatting", "Better spacing"},
			},
			Content: types.ContentFeedback{
				Score:       75,
				Strengths:   []string{"Good project descriptions", "Clear education section"},
				Weaknesses:  []string{"Missing soft skills", "No leadership examples"},
				Suggestions: []string{"Add team collaboration examples", "Include problem-solving scenarios"},
			},
			ATSCompatibility: types.IssueFeedback{
				Score:        80,
				Issues:       []string{"Complex formatting might confuse ATS"},
				Improvements: []string{"Simplify layout", "Use standard section headers"},
			},
		},
		NetworkingOpportunities: []types.NetworkingOpportunity{
			{
				Name: "London React Meetup", Type: "Meetup", Description: "Monthly meetup for React developers",
				URL: "https://meetup.com/london-react", Location: "London", Cost: "Free",
				RelevanceScore: 95, AttendeeCount: "200+", Focus: []string{"React", "JavaScript", "Frontend"},
			},
			{
				Name: "Frontend Developer Community", Type: "Online Forum",
				Description: "Active online community for frontend developers",
				URL:         "https://dev.to/frontend", Cost: "Free",
				RelevanceScore: 90, Focus: []string{"Frontend", "Networking", "Learning"},
			},
		},
		ActionPlan: types.ActionPlan{
			Phase1: []types.ActionPlanStep{
				demoStep(1, "Learn TypeScript Fundamentals", "Complete TypeScript course and apply to existing projects", "Learning", "4 weeks", "Medium", "High", 30),
				demoStep(2, "Build Portfolio Project", "Create a React TypeScript application with testing", "Building", "6 weeks", "Medium", "High", 50),
			},
			Phase2:             []types.ActionPlanStep{},
			Phase3:             []types.ActionPlanStep{},
			TotalEstimatedTime: "6 months",
			QuickWins: []types.ActionPlanStep{
				demoStep(100, "Update LinkedIn Profile", "Add recent projects and skills to your LinkedIn", "Networking", "1 day", "Easy", "High", 2),
				demoStep(101, "Join React Community", "Join local React meetup and online communities", "Networking", "1 week", "Easy", "Medium", 3),
			},
		},
		Gamification: types.GamificationData{
			Level:                3,
			XP:                   1250,
			XPToNextLevel:        750,
			Badges:               []types.Badge{},
			Achievements:         []types.Achievement{},
			CareerReadinessLevel: 65,
			WeeklyProgress: types.WeeklyProgress{
				SkillsLearned:         2,
				ProjectsCompleted:     1,
				ApplicationsSubmitted: 5,
			},
		},
		SalaryPredictions: types.SalaryRange{Currency: "GBP", Entry: 28000, Mid: 45000, Senior: 65000},
		CareerPathSuggestions: []string{
			"Focus on TypeScript and modern React patterns",
			"Build a comprehensive portfolio with 3-5 projects",
			"Contribute to open source React projects",
			"Attend local tech meetups and networking events",
			"Consider pursuing React or AWS certifications",
		},
	}
}

func demoStep(id int, title, description, category, timeframe, difficulty, priority string, hours int) types.ActionPlanStep {
	return types.ActionPlanStep{
		ID:             id,
		Title:          title,
		Description:    description,
		Category:       category,
		Timeframe:      timeframe,
		Difficulty:     difficulty,
		Priority:       priority,
		Resources:      []types.LearningResource{},
		EstimatedHours: hours,
	}
}

// DemoLegacyResponse is the sample analysis in the tag dialect
const DemoLegacyResponse = `<Suggested Career>Frontend Developer</Suggested Career>
<Skill Gap Analysis>
   <ul>
      <li>TypeScript</li>
      <li>Node.js</li>
      <li>Testing (Jest/Cypress)</li>
   </ul>
</Skill Gap Analysis>
<Salary Predictions>
   <ul>
      <li>Entry: £28,000</li>
      <li>Mid: £45,000</li>
      <li>Senior: £65,000</li>
   </ul>
</Salary Predictions>
<Career Path Suggestions>
   <ul>
      <li>Focus on TypeScript and modern React patterns</li>
      <li>Build a comprehensive portfolio with 3-5 projects</li>
      <li>Contribute to open source React projects</li>
   </ul>
</Career Path Suggestions>`
