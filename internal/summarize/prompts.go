package summarize

// SectionPrompt is used for the map stage when no prompt file is supplied.
const SectionPrompt = `Summarize the following section of a book.
Write a narrative summary of no more than 300 words, then list the 5 most important key points as bullets.
Do not add information that is not in the text.`

// OverallPrompt drives the reduce stage over the combined section summaries.
const OverallPrompt = `The following text is a sequence of summaries of consecutive sections of one book.
Write a concise overall summary of the book covering its key themes, main ideas, and takeaways.`
