package leads

// CompanyContext is the product knowledge the qualifier answers questions
// from. It is injected verbatim into the agent's instructions.
const CompanyContext = `
COMPANY PROFILE:
Name: Gan.ai
Origin: Indian AI Startup (Video Generative AI)
Mission: Create hyper-personalized video messages at scale using AI.

PRODUCT & FEATURES:
- Myna: The core engine that lip-syncs and voice-clones users to change names/variables in videos.
- Recorder: Allows users to record the template video.
- Campaign Manager: Dashboard to upload CSV data (names, companies) and generate thousands of personalized videos.
- Integrations: Works with HubSpot, Salesforce, and email tools.

PRICING (SaaS Model):
- Starter: Free trial available (watermarked).
- Growth: $500/month (Includes 1000 video minutes, voice cloning).
- Enterprise: Custom pricing (Unlimited generation, API access, dedicated CSM).

FAQ:
Q: "Do you have a free tier?"
A: Yes, we offer a trial where you can generate watermarked videos to test the lip-sync quality.

Q: "How is this different from HeyGen or Tavus?"
A: Gan.ai specializes in high-fidelity lip-syncing for Indian and Global accents and offers faster rendering times for bulk campaigns.

Q: "Who is this for?"
A: Sales teams (SDRs), Marketing teams (Customer engagement), and HR (Recruitment/Onboarding).

Q: "Can I use my own voice?"
A: Yes, we clone your voice and lip movements to make the personalization look 100% authentic.
`
