package openai

import (
	"fmt"
	"strings"

	"github.com/poiesic/sift/ai"
	"github.com/poiesic/sift/core"
)

const enhancementPromptTemplate = `You are a search query analyzer for short social posts.
Analyze the user's query and return a JSON object with:
- "enhanced_query": An improved, more searchable version of the query
- "intent": The user's search intent, exactly one of: %s
- "keywords": A list of key search terms extracted from the query
- "expanded_terms": Additional related terms to include in search
- "filters": Any implicit filters as string values (e.g. {"date": "recent", "author": ""})
- "clarification_needed": Boolean, true only if the query is genuinely ambiguous
- "clarification_question": Question to ask if clarification is needed, otherwise ""

Output ONLY valid JSON. Do not include any preamble, explanation, or markdown.
Start your response directly with the opening brace { and end with the closing brace }.`

const annotationPromptTemplate = `You are a content analyzer for short social posts.
Analyze the post and return a JSON object with:
- "description": A brief, searchable description of the post (1-2 sentences)
- "topics": List of 3-5 main topics/themes
- "sentiment": Exactly one of: %s
- "entities": List of named entities (people, companies, products, etc.)
- "content_type": Exactly one of: %s

Output ONLY valid JSON. Do not include any preamble, explanation, or markdown.
Start your response directly with the opening brace { and end with the closing brace }.`

const summaryPromptTemplate = `You are a search results summarizer for short social posts.
Given a search query and matching posts, return a JSON object with:
- "summary": A concise summary of what the search results show (2-3 sentences)
- "key_insights": List of 3-5 main takeaways from the results
- "themes": Common themes across the posts
- "notable_posts": List of 1-3 zero-based post indices that are most relevant
- "suggested_queries": 2-3 related queries the user might want to try

Output ONLY valid JSON. Do not include any preamble, explanation, or markdown.
Start your response directly with the opening brace { and end with the closing brace }.`

const answerSystemPrompt = `You are an assistant that answers questions based on short social posts.
Use only the provided posts to answer the user's question. Be concise and cite authors when possible.
If the posts don't contain enough information to answer, say so clearly.`

// buildEnhancementPrompt creates the enhancer system prompt with the
// intent vocabulary embedded.
func buildEnhancementPrompt() string {
	return fmt.Sprintf(enhancementPromptTemplate, strings.Join(ai.Intents, ", "))
}

// buildAnnotationPrompt creates the annotator system prompt with the
// sentiment and content-type vocabularies embedded.
func buildAnnotationPrompt() string {
	return fmt.Sprintf(annotationPromptTemplate,
		strings.Join(core.Sentiments, ", "),
		strings.Join(ai.ContentTypes, ", "))
}
