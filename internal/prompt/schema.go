package prompt

// SchemaName labels the response schema in the provider request.
const SchemaName = "video_scenario"

// responseSchema is the single source of truth for the provider's output
// shape. Field names, types, enumerations, and required lists must stay in
// sync with the scenario package's wire tags.
const responseSchema = `{
  "type": "object",
  "properties": {
    "title": {"type": "string", "description": "A catchy title for the scenario."},
    "logline": {"type": "string", "description": "A one-sentence summary of the story."},
    "characters": {
      "type": "array",
      "description": "A list of the main characters.",
      "items": {
        "type": "object",
        "properties": {
          "name": {"type": "string", "description": "The character's name."},
          "description": {"type": "string", "description": "A brief description of the character."}
        },
        "required": ["name", "description"],
        "additionalProperties": false
      }
    },
    "scenes": {
      "type": "array",
      "description": "The sequence of scenes, structured as human-readable prompts for AI video generation tools.",
      "items": {
        "type": "object",
        "properties": {
          "scene": {"type": "integer", "description": "The scene number, starting from 1."},
          "timeline": {"type": "string", "description": "The timeline for this cut (e.g., '0s-5s')."},
          "visualPrompt": {"type": "string", "description": "A detailed visual description including actions, effects, and color tone."},
          "cameraMovement": {"type": "string", "description": "Specific camera movement instructions."},
          "dialogue": {"type": "string", "description": "Dialogue for the scene with voice/emotion tags in brackets (e.g., '[shouting] Get out!'). Use 'None' if empty."},
          "dialogueStructure": {"type": "string", "enum": ["Narration", "Monologue", "1-on-1 Conversation", "Multi-person Conversation"], "description": "The structure of the dialogue."},
          "duration": {"type": "integer", "description": "The duration of the scene in seconds."}
        },
        "required": ["scene", "timeline", "visualPrompt", "cameraMovement", "dialogue", "dialogueStructure", "duration"],
        "additionalProperties": false
      }
    },
    "narration": {
      "type": "object",
      "description": "Details for generating narration audio.",
      "properties": {
        "script": {"type": "string", "description": "A complete narration script for the entire video, sized to the total duration."},
        "voiceTags": {"type": "string", "description": "Tags for the AI audio tool, formatted like '[tag1] [tag2]'."}
      },
      "required": ["script", "voiceTags"],
      "additionalProperties": false
    },
    "narrationScriptJson": {
      "type": "array",
      "description": "The narration script split into per-cut segments.",
      "items": {
        "type": "object",
        "properties": {
          "id": {"type": "integer", "description": "The cut number the segment belongs to."},
          "script_segment": {"type": "string", "description": "The narration text for this cut."}
        },
        "required": ["id", "script_segment"],
        "additionalProperties": false
      }
    },
    "timelineJson": {
      "type": "array",
      "description": "A machine-readable timeline for AI video tools.",
      "items": {
        "type": "object",
        "properties": {
          "id": {"type": "integer", "description": "The cut number, starting from 1."},
          "start_time": {"type": "integer", "description": "Start time of the cut in seconds."},
          "end_time": {"type": "integer", "description": "End time of the cut in seconds."},
          "prompt": {"type": "string", "description": "The combined visual and camera movement prompt for this cut."},
          "dialogue": {"type": "string", "description": "The dialogue for this cut, matching the scene's dialogue verbatim."}
        },
        "required": ["id", "start_time", "end_time", "prompt", "dialogue"],
        "additionalProperties": false
      }
    },
    "bgm": {
      "type": "object",
      "description": "A prompt for generating background music for the entire scenario.",
      "properties": {
        "style": {"type": "string", "description": "The style or genre of the background music."},
        "instruments": {"type": "string", "description": "The key instruments to be featured."},
        "mood": {"type": "string", "description": "The overall mood the music should evoke."}
      },
      "required": ["style", "instruments", "mood"],
      "additionalProperties": false
    }
  },
  "required": ["title", "logline", "characters", "scenes", "narration", "timelineJson", "bgm"],
  "additionalProperties": false
}`
