package analysis

// SystemPrompt is the fixed system instruction for book analysis.
const SystemPrompt = `You are a literary analysis expert.`

// AnalysisPrompt wraps the book excerpt (or title) in the user request.
const AnalysisPrompt = `
analyze this book "%s"  Sentiment Analysis, key characters,language detection, and Plot Summary. Response should only contain the analysis text.`
