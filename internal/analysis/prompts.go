package analysis

import "fmt"

// Prompt templates for the multi-stage remote analysis protocol. The model
// is framed as a football film analyst, restricted to sideline/All-22
// footage, and required to emit strict JSON with per-instance confidence.

const systemInstructions = `You are an expert football film analyst with comprehensive knowledge
of positions, plays, routes, blocking, tackles, and field position.

## CAMERA ANGLES (CRITICAL - Filter First)
- **Sideline/All-22**: Wide shot from the sideline showing all 22 players. ONLY ANALYZE THESE.
- **Endzone**: Shot from behind the endzone looking down the field. EXCLUDE these.
- **Scoreboard/Graphics**: Static overlay showing score, stats, or broadcast graphics. EXCLUDE these.
- **Tight/Isolated**: Close-up on specific players. EXCLUDE these.
- **Aerial/Skycam**: Overhead moving camera. EXCLUDE these.
- **Replay**: Slow-motion replay of a play. EXCLUDE these unless specifically requested.

## PLAY STRUCTURE
- A complete play starts BEFORE the snap (include pre-snap motion, shifts, audibles)
- The snap is when the center hikes the ball to the quarterback
- A play ends AFTER the whistle (include tackle completion, out of bounds, celebration)
- Typical play duration: 8-15 seconds from pre-snap to post-whistle
- NEVER cut off a play mid-action

## CONSERVATIVE DETECTION PHILOSOPHY
- Only report plays where you have HIGH CONFIDENCE in your detection
- When in doubt, DO NOT include the play
- False negatives (missing a play) are better than false positives (wrong plays)
- Confidence score must reflect actual certainty, not optimism`

// SystemInstructions is exported so remote client implementations can attach
// it as the model's system prompt. The analyst framing is followed by the
// full football knowledge base.
func SystemInstructions() string {
	return systemInstructions + "\n\n" + footballKnowledge
}

// detectionPrompt builds the chain-of-thought detection prompt: identify
// camera angles, detect matches on sideline footage only, expand timestamps
// to cover the full play, and score confidence.
func detectionPrompt(query string) string {
	return fmt.Sprintf(`Analyze this football video using the following multi-stage process.

## YOUR TASK
Find every instance where: %s

## STAGE 1: CAMERA ANGLE IDENTIFICATION
First, mentally note the camera angles used throughout this video:
- Sideline/All-22 (wide shot showing all players) - ANALYZE THESE
- Endzone view - SKIP THESE
- Scoreboard/graphics overlay - SKIP THESE
- Tight/isolated shots - SKIP THESE
- Replay footage - SKIP THESE

ONLY analyze footage from SIDELINE/ALL-22 camera angles.

## STAGE 2: EVENT DETECTION (Sideline footage only)
For each potential match, verify:
- Is this definitely the correct player (jersey number clearly visible)?
- Is this definitely the correct action (catch vs run vs block)?
- Is the camera angle sideline/All-22?

## STAGE 3: TIMESTAMP EXPANSION
For each confirmed detection:
- start_time: Set to 3-5 seconds BEFORE the snap to capture pre-snap motion
- end_time: Set to 2-3 seconds AFTER the play ends (tackle, out of bounds, whistle)
- Total clip duration should be 8-15 seconds for a typical play

## STAGE 4: CONFIDENCE SCORING
Rate your confidence (0-100) based on:
- 90-100: Jersey number clearly visible, action unambiguous, sideline angle confirmed
- 70-89: High confidence but minor uncertainty (number slightly obscured, etc.)
- Below 70: DO NOT INCLUDE - too uncertain

## OUTPUT FORMAT
Return ONLY a valid JSON array. Each object must have:
- "start_time": number (seconds, BEFORE the snap)
- "end_time": number (seconds, AFTER the whistle/play end)
- "confidence_score": number (0-100, must be >= 70 to include)
- "camera_angle": string (must be "sideline" to include)
- "play_description": string (detailed description of the play)
- "player_jersey": string (jersey number identified, e.g., "#17")
- "action_type": string (e.g., "catch", "run", "block", etc.)
- "reasoning": string (brief explanation of why this detection is confident)

If no high-confidence instances are found, return an empty array: []

CRITICAL RULES:
1. ONLY include clips from SIDELINE camera angle
2. ONLY include clips with confidence >= 70
3. ALWAYS capture the COMPLETE play (pre-snap to post-whistle)
4. When uncertain, DO NOT include the play

Return ONLY the JSON array, no other text.`, query)
}

// verificationPrompt asks four explicit yes/no questions about one accepted
// detection plus an overall KEEP/REJECT recommendation.
func verificationPrompt(query string, d Detection) string {
	return fmt.Sprintf(`You are verifying a detected football play clip. Answer each question carefully.

ORIGINAL SEARCH QUERY: %s

DETECTED CLIP INFO:
- Timestamps: %.1fs to %.1fs
- Claimed action: %s
- Claimed player: %s

## VERIFICATION QUESTIONS

Answer each question with YES or NO, followed by brief reasoning:

1. CAMERA ANGLE: Is this clip filmed from a SIDELINE/ALL-22 camera angle (wide shot showing most/all players)?
   - Answer NO if: endzone view, scoreboard graphics, tight shot, replay, or aerial view

2. COMPLETE PLAY: Does this clip show a COMPLETE play from pre-snap through post-whistle?
   - Answer NO if: play is cut off mid-action, missing the snap, or missing the play conclusion

3. CORRECT PLAYER: Is the identified player (%s) clearly visible and correctly identified?
   - Answer NO if: jersey number not visible, wrong player, or uncertain identification

4. CORRECT ACTION: Does the play match the search criteria "%s"?
   - Answer NO if: different action type (e.g., run instead of catch), different player, or ambiguous

## OUTPUT FORMAT
Return ONLY a valid JSON object:
{
  "camera_angle_verified": boolean,
  "camera_angle_reasoning": "string",
  "complete_play_verified": boolean,
  "complete_play_reasoning": "string",
  "player_verified": boolean,
  "player_reasoning": "string",
  "action_verified": boolean,
  "action_reasoning": "string",
  "all_criteria_met": boolean,
  "overall_confidence": number (0-100),
  "recommendation": "KEEP" or "REJECT",
  "rejection_reason": "string or null"
}

Be STRICT in verification. When in doubt, recommend REJECT.`,
		query, d.StartTime, d.EndTime, d.PlayDescription, d.PlayerJersey, d.PlayerJersey, query)
}
