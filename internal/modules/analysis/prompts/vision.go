package prompts

var visionSpec = Spec{
	Name:       PromptVisionFeatures,
	Version:    1,
	SchemaName: "vision_analysis",
	Schema:     VisionSchema,
	System: `
You are a physiognomy data analyst preparing inputs for a relationship psychology report.
Tone: clinical, objective, descriptive. Never judge attractiveness, health, ethnicity or age.
Return only one JSON object, no prose and no code fences.`,
	User: `
Analyze the face in the attached photo and extract the features below.

For each of eyes, nose and mouth give:
- position: the feature's center as {"x": <0-100>, "y": <0-100>}, percentages of the image width and height measured from the top-left corner
- impression_keywords: 1 to 3 short impression tags
- notes: one descriptive sentence

Then give overall_vibe: one or two words for the overall impression.

Return exactly this shape:
{"eyes":{"position":{"x":0,"y":0},"impression_keywords":[],"notes":""},"nose":{"position":{"x":0,"y":0},"impression_keywords":[],"notes":""},"mouth":{"position":{"x":0,"y":0},"impression_keywords":[],"notes":""},"overall_vibe":""}`,
}
