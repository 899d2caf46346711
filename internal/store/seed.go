package store

import (
	"time"

	"github.com/campusreels/crfind/internal/types"
)

// SeedLibrary builds the demo content library
// Timestamps are laid out relative to now so recency scoring has something
// to work with on a fresh install
func SeedLibrary(now time.Time) *Library {
	base := now.UnixMilli()
	hoursAgo := func(h int64) int64 { return base - h*3_600_000 }
	daysAgo := func(d int64) int64 { return base - d*86_400_000 }

	return &Library{
		UserItems: []types.User{
			{ID: "user1", Username: "alex_chen", Name: "Alex Chen", Courses: []string{"CSE310", "MAT265", "ENG108"}},
			{ID: "user2", Username: "maya_patel", Name: "Maya Patel", Courses: []string{"CSE310", "PHY121", "HST100"}},
			{ID: "user3", Username: "jordan_kim", Name: "Jordan Kim", Courses: []string{"MAT265", "ENG108", "PHY121"}},
			{ID: "user4", Username: "sophia_rodriguez", Name: "Sophia Rodriguez", Courses: []string{"BIO101", "CHEM201", "MAT265"}},
			{ID: "user5", Username: "tyler_wilson", Name: "Tyler Wilson", Courses: []string{"CSE310", "CSE450", "MAT265"}},
			{ID: "user6", Username: "emma_thompson", Name: "Emma Thompson", Courses: []string{"BIO101", "CHEM201", "PHY121"}},
		},
		CourseItems: []types.Course{
			{ID: "CSE310", Code: "CSE310", Title: "Data Structures & Algorithms"},
			{ID: "CSE450", Code: "CSE450", Title: "Software Engineering"},
			{ID: "MAT265", Code: "MAT265", Title: "Calculus I"},
			{ID: "MAT266", Code: "MAT266", Title: "Calculus II"},
			{ID: "BIO101", Code: "BIO101", Title: "General Biology"},
			{ID: "CHEM201", Code: "CHEM201", Title: "Organic Chemistry"},
			{ID: "ENG108", Code: "ENG108", Title: "Technical Writing"},
			{ID: "PHY121", Code: "PHY121", Title: "Physics I"},
			{ID: "HST100", Code: "HST100", Title: "World History"},
		},
		ReelItems: []types.Reel{
			{ID: "reel1", UserID: "user1", CourseID: "CSE310",
				Caption: "Quicksort in 60 seconds - watch the pivot dance!",
				Tags:    []string{"quicksort", "algorithms", "sorting"},
				Likes:   214, Comments: 31, CreatedAt: hoursAgo(2)},
			{ID: "reel2", UserID: "user3", CourseID: "MAT265",
				Caption: "The chain rule explained with actual chains",
				Tags:    []string{"calculus", "derivatives", "chainrule"},
				Likes:   167, Comments: 24, CreatedAt: hoursAgo(5)},
			{ID: "reel3", UserID: "user2", CourseID: "PHY121",
				Caption: "Projectile motion demo from the stadium stairs",
				Tags:    []string{"physics", "kinematics", "demo"},
				Likes:   98, Comments: 12, CreatedAt: hoursAgo(9)},
			{ID: "reel4", UserID: "user6", CourseID: "CHEM201",
				Caption: "SN1 vs SN2 reactions - the 30 second version",
				Tags:    []string{"orgo", "reactions", "chemistry"},
				Likes:   143, Comments: 19, CreatedAt: daysAgo(1)},
			{ID: "reel5", UserID: "user5",
				Caption: "Library spots ranked by nap friendliness",
				Tags:    []string{"campus", "studyspots"},
				Likes:   412, Comments: 87, CreatedAt: daysAgo(2)},
		},
		PostItems: []types.Post{
			{ID: "post1", UserID: "user1", CourseID: "CSE310",
				Title: "Big O Notation Cheat Sheet",
				Body: "# Big O Notation Cheat Sheet\n\n" +
					"Understanding time complexity is crucial for coding interviews and efficient programming.\n\n" +
					"## Common Time Complexities\n\n" +
					"- **O(1)** - Constant time (array access, hash table lookup)\n" +
					"- **O(log n)** - Logarithmic (binary search, balanced trees)\n" +
					"- **O(n)** - Linear (single loop, linear search)\n" +
					"- **O(n log n)** - Linearithmic (merge sort, heap sort)\n" +
					"- **O(n²)** - Quadratic (nested loops, bubble sort)\n\n" +
					"## Space Complexity\n\n" +
					"Remember to consider both time AND space complexity when analyzing algorithms!",
				Tags:  []string{"algorithms", "complexity", "cheatsheet"},
				Likes: 124, Comments: 23, CreatedAt: hoursAgo(1)},
			{ID: "post2", UserID: "user2", CourseID: "PHY121",
				Title: "Physics Formula Sheet",
				Body: "# Essential Physics Formulas\n\n" +
					"## Kinematics\n- v = v₀ + at\n- x = x₀ + v₀t + ½at²\n\n" +
					"## Dynamics\n- F = ma\n- f = μN (friction)\n\n" +
					"## Energy\n- KE = ½mv²\n- PE = mgh\n\n" +
					"Save this for your next exam!",
				Tags:  []string{"physics", "formulas", "kinematics"},
				Likes: 89, Comments: 15, CreatedAt: hoursAgo(2)},
			{ID: "post3", UserID: "user3", CourseID: "MAT265",
				Title: "Calculus Integration Techniques",
				Body: "# Integration Techniques Summary\n\n" +
					"## Basic Rules\n- ∫ k dx = kx + C\n- ∫ xⁿ dx = xⁿ⁺¹/(n+1) + C\n\n" +
					"## Advanced Techniques\n" +
					"1. **Integration by Parts**: ∫ u dv = uv - ∫ v du\n" +
					"2. **Substitution**: Let u = g(x)\n" +
					"3. **Partial Fractions**: Break down rational functions",
				Tags:  []string{"calculus", "integration", "techniques"},
				Likes: 102, Comments: 18, CreatedAt: hoursAgo(6)},
			{ID: "post4", UserID: "user5", CourseID: "CSE450",
				Title: "Git Workflow for Group Projects",
				Body: "# Git Workflow for Group Projects\n\n" +
					"Stop pushing to main. Please.\n\n" +
					"1. Branch per feature\n" +
					"2. Small, reviewable pull requests\n" +
					"3. Rebase before merging\n" +
					"4. Write commit messages your teammates can read\n\n" +
					"Your group will thank you at demo day.",
				Tags:  []string{"git", "softwareengineering", "teamwork"},
				Likes: 76, Comments: 9, CreatedAt: daysAgo(1)},
			{ID: "post5", UserID: "user4", CourseID: "BIO101",
				Title: "Cell Division Study Notes",
				Body: "# Mitosis vs Meiosis\n\n" +
					"Mitosis: one division, two identical diploid cells.\n" +
					"Meiosis: two divisions, four unique haploid cells.\n\n" +
					"Remember PMAT: Prophase, Metaphase, Anaphase, Telophase.",
				Tags:  []string{"biology", "mitosis", "studynotes"},
				Likes: 58, Comments: 7, CreatedAt: daysAgo(3)},
		},
		PointerItems: []types.Pointer{
			{ID: "pointer1", CourseID: "CSE310",
				Title: "Binary Search Implementation Tips",
				Body: "Always check for edge cases: empty array, single element, target not found. " +
					"Use left + (right - left) / 2 to avoid integer overflow. Remember to update bounds correctly!",
				Tags:    []string{"binarysearch", "algorithms", "tips"},
				Upvotes: 45, CreatedAt: hoursAgo(1)},
			{ID: "pointer2", CourseID: "MAT265",
				Title: "L'Hôpital's Rule Quick Check",
				Body: "Only use L'Hôpital's rule for 0/0 or ∞/∞ forms. If you get the same form " +
					"after applying it, try again. If it keeps cycling, use a different method!",
				Tags:    []string{"calculus", "limits", "lhopital"},
				Upvotes: 38, CreatedAt: hoursAgo(2)},
			{ID: "pointer3", CourseID: "PHY121",
				Title: "Free Body Diagrams",
				Body: "Always draw FBDs for each object separately. Include ALL forces acting on the " +
					"object. Don't forget normal forces, friction, and tension!",
				Tags:    []string{"physics", "forces", "diagrams"},
				Upvotes: 52, CreatedAt: hoursAgo(3)},
			{ID: "pointer4", CourseID: "ENG108",
				Title: "APA Citation Format",
				Body: "In-text: (Author, Year). Reference list: Author, A. A. (Year). Title. Publisher. " +
					"For websites, include Retrieved from URL and access date.",
				Tags:    []string{"writing", "citation", "apa"},
				Upvotes: 29, CreatedAt: hoursAgo(4)},
			{ID: "pointer5", CourseID: "CSE310",
				Title: "Hash Table Collision Handling",
				Body: "Chaining: Store multiple values in same bucket. Open addressing: Find next " +
					"available slot. Load factor should stay below 0.75 for good performance.",
				Tags:    []string{"hashtable", "collision", "datastructures"},
				Upvotes: 41, CreatedAt: hoursAgo(5)},
			{ID: "pointer6", CourseID: "MAT265",
				Title: "Integration by Parts LIATE",
				Body: "Choose u using LIATE order: Logarithmic, Inverse trig, Algebraic, Trigonometric, " +
					"Exponential. The rest becomes dv.",
				Tags:    []string{"calculus", "integration", "parts"},
				Upvotes: 67, CreatedAt: hoursAgo(6)},
		},
	}
}
