package constant

const (
	// GROUNDED QA (Single-Shot, Concise)
	AnswerSystemPrompt = `You are an assistant for question-answering tasks. Use the retrieved context below to answer the question. If the context does not contain the answer, say that you don't know. Keep the answer concise (three sentences maximum). Do not invent sources.`

	// AnswerPromptTemplate is filled with (context, question). The dashed fences
	// keep the model from blending context into its own instructions.
	AnswerPromptTemplate = `Context:
---------------------
%s
---------------------
Question: %s`

	// Retrieval tuning
	DefaultTopK         = 4
	RetrievalOverfetch  = 2 // fetch k*2 so scope filtering still fills k
	ContextJoinSep      = "\n\n"
	EmbeddingDimensions = 768

	// Embedding task types (provider hint: query vs document encoding)
	TaskTypeDocument = "RETRIEVAL_DOCUMENT"
	TaskTypeQuery    = "RETRIEVAL_QUERY"

	// Chunking-strategy tags recorded on audit log lines. Analytics group by
	// these; they never influence behavior.
	StrategyStructuredLayout       = "structured_layout"
	StrategyFixedSplitter          = "fixed_1000_overlap_100"
	StrategyStructuredWithFallback = "structured_layout_with_txt_fallback"
	StrategyNone                   = "none"

	// Queue topics (watermill, in-process)
	TopicChunkCleanup = "chunk_cleanup"

	// Event types (NATS + websocket)
	EventDocumentIndexed    = "DOCUMENT_INDEXED"
	EventDocumentSuperseded = "DOCUMENT_SUPERSEDED"

	// Metadata keys shared between ingestion, retrieval and analytics
	MetaKeySource         = "source"
	MetaKeyFilename       = "filename"
	MetaKeyContentHash    = "content_hash"
	MetaKeyConversationId = "conversation_id"
	MetaKeyUploadTime     = "upload_timestamp"
	MetaKeyIndexedTime    = "last_indexed_timestamp"
	MetaKeyLayout         = "layout"
)
