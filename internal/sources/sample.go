package sources

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"feedbackintel/internal/models"
)

// Built-in datasets keep the pipeline exercisable when every upstream is
// unreachable. Dates are expressed relative to now so freshness-sensitive
// consumers see a plausible spread.

type sampleItem struct {
	rating  float64
	text    string
	daysAgo int
}

func daysAgo(n int) string {
	return time.Now().UTC().AddDate(0, 0, -n).Format("2006-01-02")
}

func makeSample(prefix, source string, authorFmt string, items []sampleItem) []models.Review {
	out := make([]models.Review, 0, len(items))
	for i, it := range items {
		out = append(out, models.Review{
			ID:       fmt.Sprintf("%s_%d", prefix, i),
			Source:   source,
			Text:     it.text,
			Rating:   models.Float(it.rating),
			Date:     daysAgo(it.daysAgo),
			Author:   fmt.Sprintf(authorFmt, 100+i),
			Priority: models.PriorityNormal,
		})
	}
	return out
}

var playSampleItems = []sampleItem{
	{5, "Absolutely love this app! Super smooth and the new UI is gorgeous. Best messaging app out there.", 1},
	{1, "App crashes every time I try to open a video. Completely broken since the last update!", 1},
	{2, "Battery drain is insane. Phone goes from 100% to 20% in 2 hours with just this app running.", 2},
	{4, "Good app overall but please add dark mode support. My eyes hurt at night.", 2},
	{1, "Cannot send photos anymore. Error code 401 every single time. Please fix this bug ASAP!", 3},
	{5, "Works perfectly on my new phone. Fast, reliable, love the status feature.", 3},
	{3, "Average app. Too many ads now and it feels slow compared to 6 months ago.", 4},
	{1, "Login keeps failing. I've reinstalled 5 times and nothing works. Terrible support.", 4},
	{5, "Just what I needed. Clean interface and great call quality even on 3G.", 5},
	{2, "Notifications are completely broken. I miss messages for hours. Unacceptable.", 5},
	{4, "Please add the option to schedule messages. That feature would be a game-changer!", 6},
	{1, "Data usage is out of control. Using 2GB per day doing nothing. Bug report filed.", 6},
	{5, "The group call feature is amazing. Used it for our team meeting and it was flawless.", 7},
	{3, "Decent but the search function is terrible. Can't find old messages easily.", 7},
	{2, "Since the update, stickers and GIFs don't load. Please roll back or fix quickly.", 8},
	{5, "Best update in years! The new reactions are so fun and the speed improvement is noticeable.", 8},
	{1, "Account got banned for no reason. Customer support is non-existent. Zero stars if I could.", 9},
	{4, "Would love to see multi-device support improved. Sometimes messages don't sync.", 9},
	{5, "Never had a single crash in 2 years. Rock solid and privacy focused. Highly recommend.", 10},
	{2, "The forced update broke everything on my older Android device. Please support Android 8 still.", 10},
	{1, "Voice messages suddenly won't play. This is a critical bug that needs an immediate fix.", 11},
	{5, "Customer service actually helped me recover my account! Thank you so much!", 11},
	{3, "Too cluttered now with all the new features. Miss the simplicity of the old version.", 12},
	{4, "Feature request: please add message editing after sending. Every other app has this now.", 12},
	{1, "App freezes on startup after latest update. Pixel 6 user. PLEASE FIX.", 13},
}

var appStoreSampleItems = []sampleItem{
	{5, "Five stars without hesitation. This app just works. Period.", 1},
	{1, "Constant crashes on iOS 17. Apple should remove this from the store until it's fixed.", 2},
	{4, "Really solid messaging app. Would be perfect with iMessage-style reactions.", 2},
	{2, "Battery consumption has doubled after the latest update. Please investigate.", 3},
	{5, "Great privacy features. Love that everything is end-to-end encrypted.", 3},
	{1, "Can't log in since I switched iPhones. Verification code never arrives. Stuck for a week.", 4},
	{3, "It works but feels dated compared to Telegram. Needs a serious UI refresh.", 4},
	{5, "Video calling quality is exceptional. Better than FaceTime in my experience.", 5},
	{2, "Push notifications are unreliable. Half the time I don't know I have messages.", 5},
	{4, "Please add ability to transfer chat history between iOS and Android. Desperately needed!", 6},
	{1, "Photos disappear from chats randomly. Lost important photos. This is a serious data-loss bug!", 6},
	{5, "Flawless experience on my iPhone 15 Pro. Speed is incredible.", 7},
	{3, "The web version is much better than the mobile app now. That's embarrassing.", 7},
	{1, "My account was hacked. The 2FA did nothing. I'm furious and terrified.", 8},
	{4, "Love the app but the status feature needs more visibility options.", 8},
	{5, "Update fixed all my previous issues. Team clearly listens to feedback!", 9},
	{2, "Takes forever to load on older iPhones. Optimization needed badly.", 9},
	{1, "Storage usage is absurd. Taking up 8GB on my phone for a messaging app.", 10},
	{5, "The design is clean and intuitive. New users will have no problem figuring it out.", 10},
	{4, "Feature request: please add message scheduling like Telegram has.", 11},
}

var surveySampleItems = []sampleItem{
	{4, "The interface is clean. Would love better search functionality.", 1},
	{5, "Excellent tool! Has completely replaced email for our team.", 1},
	{2, "Integration with third-party apps is clunky and unreliable.", 2},
	{1, "Data export feature is completely broken. Can't get my data out.", 2},
	{5, "Best product we've used in this category. Support team is amazing.", 3},
	{3, "Works fine but the pricing jumped 40% with no warning. Not happy.", 3},
	{1, "Critical bug: reports generate incorrect numbers. This cost us money.", 4},
	{4, "Would love dark mode and custom dashboards. Great foundation though.", 4},
	{5, "The onboarding flow is exceptional. Had our team up in 30 minutes.", 5},
	{2, "Performance degrades badly when exporting large datasets.", 5},
	{3, "Average experience. Nothing special but nothing terrible either.", 6},
	{5, "Customer support resolved my issue within 1 hour. Impressed!", 6},
	{1, "Single sign-on is broken for Google Workspace accounts since last week.", 7},
	{4, "Feature request: please add API webhooks for real-time data sync.", 7},
	{5, "ROI has been outstanding. Saved our team 15 hours per week.", 8},
}

// SamplePlayStore returns the built-in Play Store dataset.
func SamplePlayStore() []models.Review {
	return makeSample("gp", models.SourcePlayStore, "User_%d", playSampleItems)
}

// SampleAppStore returns the built-in App Store dataset.
func SampleAppStore() []models.Review {
	return makeSample("as", models.SourceAppStore, "iUser_%d", appStoreSampleItems)
}

// SampleSurvey returns the built-in survey dataset.
func SampleSurvey() []models.Review {
	out := makeSample("csv", models.SourceSurvey, "Respondent_%d", surveySampleItems)
	for i := range out {
		out[i].Author = fmt.Sprintf("Respondent_%d", i+1)
	}
	return out
}

// WriteSampleCSV writes a demo survey file users can feed back into the
// CSV adapter.
func WriteSampleCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create sample csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"id", "text", "rating", "date", "author"}); err != nil {
		return err
	}
	for i, r := range SampleSurvey() {
		rating := ""
		if r.Rating != nil {
			rating = strconv.FormatFloat(*r.Rating, 'f', -1, 64)
		}
		row := []string{fmt.Sprintf("s%d", i), r.Text, rating, r.Date, r.Author}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
